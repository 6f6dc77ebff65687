package wm

import "errors"

// ErrAlreadyFramed is returned when a frame or one of its key handles is
// already registered.
var ErrAlreadyFramed = errors.New("window is already framed")

// Client is one managed top-level window and the decoration windows the
// manager created for it. CloseAffordance is zero when the close button is
// disabled.
type Client struct {
	TopLevel        Window
	Frame           Window
	Titlebar        Window
	CloseAffordance Window
}

// Keys returns every non-zero handle belonging to the client.
func (c Client) Keys() []Window {
	keys := make([]Window, 0, 4)
	for _, w := range []Window{c.TopLevel, c.Frame, c.Titlebar, c.CloseAffordance} {
		if w != 0 {
			keys = append(keys, w)
		}
	}
	return keys
}

// Registry maps every handle belonging to a managed client to its frame.
// It is owned by the event loop goroutine and is not safe for concurrent use.
type Registry struct {
	owners  map[Window]Window
	clients map[Window]Client
	order   []Window
}

func NewRegistry() *Registry {
	return &Registry{
		owners:  make(map[Window]Window),
		clients: make(map[Window]Client),
	}
}

// Register records c under frame and maps every key to frame. Nothing is
// recorded if frame or any key is already present.
func (r *Registry) Register(keys []Window, frame Window, c Client) error {
	if _, ok := r.clients[frame]; ok {
		return ErrAlreadyFramed
	}
	for _, k := range keys {
		if _, ok := r.owners[k]; ok {
			return ErrAlreadyFramed
		}
	}
	for _, k := range keys {
		if k == 0 {
			continue
		}
		r.owners[k] = frame
	}
	r.owners[frame] = frame
	r.clients[frame] = c
	r.order = append(r.order, frame)
	return nil
}

// LookupFrame returns the frame owning w.
func (r *Registry) LookupFrame(w Window) (Window, bool) {
	frame, ok := r.owners[w]
	return frame, ok
}

// LookupClient returns the record stored under frame.
func (r *Registry) LookupClient(frame Window) (Client, bool) {
	c, ok := r.clients[frame]
	return c, ok
}

// ClientOf resolves any key handle to its client.
func (r *Registry) ClientOf(w Window) (Client, bool) {
	frame, ok := r.owners[w]
	if !ok {
		return Client{}, false
	}
	return r.LookupClient(frame)
}

// IsTopLevel reports whether w is the application window of a client.
func (r *Registry) IsTopLevel(w Window) bool {
	c, ok := r.ClientOf(w)
	return ok && c.TopLevel == w
}

func (r *Registry) IsTitlebar(w Window) bool {
	c, ok := r.ClientOf(w)
	return ok && c.Titlebar == w
}

func (r *Registry) IsCloseAffordance(w Window) bool {
	c, ok := r.ClientOf(w)
	return ok && c.CloseAffordance != 0 && c.CloseAffordance == w
}

// Remove drops the client stored under frame together with all its keys.
func (r *Registry) Remove(frame Window) {
	if _, ok := r.clients[frame]; !ok {
		return
	}
	for k, owner := range r.owners {
		if owner == frame {
			delete(r.owners, k)
		}
	}
	delete(r.clients, frame)
	for i, f := range r.order {
		if f == frame {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clients returns the managed clients in registration order.
func (r *Registry) Clients() []Client {
	out := make([]Client, 0, len(r.order))
	for _, f := range r.order {
		out = append(out, r.clients[f])
	}
	return out
}

func (r *Registry) Len() int { return len(r.clients) }
