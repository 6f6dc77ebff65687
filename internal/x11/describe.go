package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewm/internal/wm"
)

// requestNames are the core protocol requests by major opcode.
var requestNames = [...]string{
	1: "CreateWindow", "ChangeWindowAttributes", "GetWindowAttributes",
	"DestroyWindow", "DestroySubwindows", "ChangeSaveSet", "ReparentWindow",
	"MapWindow", "MapSubwindows", "UnmapWindow", "UnmapSubwindows",
	"ConfigureWindow", "CirculateWindow", "GetGeometry", "QueryTree",
	"InternAtom", "GetAtomName", "ChangeProperty", "DeleteProperty",
	"GetProperty", "ListProperties", "SetSelectionOwner", "GetSelectionOwner",
	"ConvertSelection", "SendEvent", "GrabPointer", "UngrabPointer",
	"GrabButton", "UngrabButton", "ChangeActivePointerGrab", "GrabKeyboard",
	"UngrabKeyboard", "GrabKey", "UngrabKey", "AllowEvents", "GrabServer",
	"UngrabServer", "QueryPointer", "GetMotionEvents", "TranslateCoordinates",
	"WarpPointer", "SetInputFocus", "GetInputFocus", "QueryKeymap",
	"OpenFont", "CloseFont", "QueryFont", "QueryTextExtents", "ListFonts",
	"ListFontsWithInfo", "SetFontPath", "GetFontPath", "CreatePixmap",
	"FreePixmap", "CreateGC", "ChangeGC", "CopyGC", "SetDashes",
	"SetClipRectangles", "FreeGC", "ClearArea", "CopyArea", "CopyPlane",
	"PolyPoint", "PolyLine", "PolySegment", "PolyRectangle", "PolyArc",
	"FillPoly", "PolyFillRectangle", "PolyFillArc", "PutImage", "GetImage",
	"PolyText8", "PolyText16", "ImageText8", "ImageText16", "CreateColormap",
	"FreeColormap", "CopyColormapAndFree", "InstallColormap",
	"UninstallColormap", "ListInstalledColormaps", "AllocColor",
	"AllocNamedColor", "AllocColorCells", "AllocColorPlanes", "FreeColors",
	"StoreColors", "StoreNamedColor", "QueryColors", "LookupColor",
	"CreateCursor", "CreateGlyphCursor", "FreeCursor", "RecolorCursor",
	"QueryBestSize", "QueryExtension", "ListExtensions",
	"ChangeKeyboardMapping", "GetKeyboardMapping", "ChangeKeyboardControl",
	"GetKeyboardControl", "Bell", "ChangePointerControl", "GetPointerControl",
	"SetScreenSaver", "GetScreenSaver", "ChangeHosts", "ListHosts",
	"SetAccessControl", "SetCloseDownMode", "KillClient", "RotateProperties",
	"ForceScreenSaver", "SetPointerMapping", "GetPointerMapping",
	"SetModifierMapping", "GetModifierMapping",
	127: "NoOperation",
}

// RequestName returns the name of a core request, or a placeholder for
// extension and unknown opcodes.
func RequestName(major uint8) string {
	if int(major) < len(requestNames) && requestNames[major] != "" {
		return requestNames[major]
	}
	if major >= 128 {
		return fmt.Sprintf("Extension(%d)", major)
	}
	return fmt.Sprintf("Unknown(%d)", major)
}

// errorFields is the layout shared by every core protocol error.
type errorFields struct {
	name     string
	code     uint8
	sequence uint16
	value    uint32
	minor    uint16
	major    uint8
}

func fromValue(code uint8, e xproto.ValueError) errorFields {
	return errorFields{e.NiceName, code, e.Sequence, e.BadValue, e.MinorOpcode, e.MajorOpcode}
}

func fromRequest(code uint8, e xproto.RequestError) errorFields {
	return errorFields{e.NiceName, code, e.Sequence, e.BadValue, e.MinorOpcode, e.MajorOpcode}
}

// ServerError converts a protocol error into its wm form, naming the
// failed request.
func ServerError(err xgb.Error) *wm.ServerError {
	var f errorFields
	switch e := err.(type) {
	case xproto.RequestError:
		f = fromRequest(xproto.BadRequest, e)
	case xproto.ValueError:
		f = fromValue(xproto.BadValue, e)
	case xproto.WindowError:
		f = fromValue(xproto.BadWindow, xproto.ValueError(e))
	case xproto.PixmapError:
		f = fromValue(xproto.BadPixmap, xproto.ValueError(e))
	case xproto.AtomError:
		f = fromValue(xproto.BadAtom, xproto.ValueError(e))
	case xproto.CursorError:
		f = fromValue(xproto.BadCursor, xproto.ValueError(e))
	case xproto.FontError:
		f = fromValue(xproto.BadFont, xproto.ValueError(e))
	case xproto.MatchError:
		f = fromRequest(xproto.BadMatch, xproto.RequestError(e))
	case xproto.DrawableError:
		f = fromValue(xproto.BadDrawable, xproto.ValueError(e))
	case xproto.AccessError:
		f = fromRequest(xproto.BadAccess, xproto.RequestError(e))
	case xproto.AllocError:
		f = fromRequest(xproto.BadAlloc, xproto.RequestError(e))
	case xproto.ColormapError:
		f = fromValue(xproto.BadColormap, xproto.ValueError(e))
	case xproto.GContextError:
		f = fromValue(xproto.BadGContext, xproto.ValueError(e))
	case xproto.IDChoiceError:
		f = fromValue(xproto.BadIDChoice, xproto.ValueError(e))
	case xproto.NameError:
		f = fromRequest(xproto.BadName, xproto.RequestError(e))
	case xproto.LengthError:
		f = fromRequest(xproto.BadLength, xproto.RequestError(e))
	case xproto.ImplementationError:
		f = fromRequest(xproto.BadImplementation, xproto.RequestError(e))
	default:
		return &wm.ServerError{
			Name:     err.Error(),
			Request:  "unknown",
			Resource: err.BadId(),
			Sequence: err.SequenceId(),
		}
	}
	return &wm.ServerError{
		Name:     f.name,
		Code:     f.code,
		Request:  RequestName(f.major),
		Major:    f.major,
		Minor:    f.minor,
		Resource: f.value,
		Sequence: f.sequence,
	}
}
