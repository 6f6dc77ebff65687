package wm

import "github.com/1broseidon/framewm/internal/geom"

// Phase is the interaction state of the pointer.
type Phase int

const (
	// PhaseIdle means no drag is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means a Session is anchored and motion updates the frame
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragMode selects what a drag changes.
type DragMode int

const (
	DragMove DragMode = iota
	DragResize
)

func (d DragMode) String() string {
	if d == DragResize {
		return "resize"
	}
	return "move"
}

// Session is the anchor of an in-progress drag. Every motion is computed
// from the anchor, never from the previous motion.
type Session struct {
	Mode            DragMode
	Frame           Window
	Button          Button
	AnchorPointer   geom.Position
	AnchorFramePos  geom.Position
	AnchorFrameSize geom.Size
}

// interaction holds the single pointer's state.
type interaction struct {
	phase        Phase
	session      Session
	pendingClose Window
}

func (s *interaction) reset() {
	s.phase = PhaseIdle
	s.session = Session{}
	s.pendingClose = 0
}

// forget drops any state pointing at frame.
func (s *interaction) forget(frame Window, reg *Registry) {
	if s.session.Frame == frame {
		s.phase = PhaseIdle
		s.session = Session{}
	}
	if s.pendingClose != 0 {
		if owner, ok := reg.LookupFrame(s.pendingClose); !ok || owner == frame {
			s.pendingClose = 0
		}
	}
}
