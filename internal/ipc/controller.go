package ipc

import (
	"context"

	"github.com/1broseidon/framewm/internal/wm"
)

// Controller is what the server drives. Calls may block until the window
// manager's event loop gets to them.
type Controller interface {
	Status(ctx context.Context) (StatusData, error)
	Clients(ctx context.Context) ([]ClientData, error)
	CloseClient(ctx context.Context, window uint32) error
	Reload(ctx context.Context) error
}

// ManagerController adapts a running wm.Manager.
type ManagerController struct {
	Manager    *wm.Manager
	Display    string
	ConfigPath string

	// ReloadFunc re-reads configuration and hands it to the manager.
	ReloadFunc func(ctx context.Context) error
}

var _ Controller = (*ManagerController)(nil)

func (c *ManagerController) Status(ctx context.Context) (StatusData, error) {
	st, err := c.Manager.Status(ctx)
	if err != nil {
		return StatusData{}, err
	}
	return StatusData{
		Clients:       st.Clients,
		Phase:         st.Phase.String(),
		UptimeSeconds: int64(st.Uptime.Seconds()),
		Display:       c.Display,
		ConfigPath:    c.ConfigPath,
	}, nil
}

func (c *ManagerController) Clients(ctx context.Context) ([]ClientData, error) {
	infos, err := c.Manager.Clients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClientData, 0, len(infos))
	for _, info := range infos {
		out = append(out, ClientData{
			Window:  uint32(info.TopLevel),
			Frame:   uint32(info.Frame),
			Title:   info.Title,
			X:       info.Bounds.X,
			Y:       info.Bounds.Y,
			Width:   info.Bounds.Width,
			Height:  info.Bounds.Height,
			Focused: info.Focused,
		})
	}
	return out, nil
}

func (c *ManagerController) CloseClient(ctx context.Context, window uint32) error {
	return c.Manager.CloseWindow(ctx, wm.Window(window))
}

func (c *ManagerController) Reload(ctx context.Context) error {
	if c.ReloadFunc == nil {
		return nil
	}
	return c.ReloadFunc(ctx)
}
