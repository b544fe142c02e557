package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/router"
)

// Controller maps key presses onto the router and the active lab's sliders.
//
// Bindings:
//   - 1..9: navigate to the n-th registered route
//   - Left/Right: previous/next route, wrapping
//   - Tab: select the next slider
//   - Up/Down: nudge the selected slider by one step
//   - R: reset every slider of the active lab
type Controller struct {
	mu       sync.Mutex
	router   router.Router
	selected int
	path     string
}

// NewController creates a Controller driving r.
//
// Parameters:
//   - r: the router whose routes the number keys select
//
// Returns:
//   - *Controller: the controller with the first slider selected
func NewController(r router.Router) *Controller {
	return &Controller{router: r}
}

// HandleKey applies one key press. Keys without a binding are ignored.
//
// Parameters:
//   - ctx: passed to Navigate when the key changes the route
//   - key: a common.Key* code
//
// Returns:
//   - error: the navigation error, if the key navigated
func (c *Controller) HandleKey(ctx context.Context, key uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case key >= common.Key1 && key <= common.Key9:
		routes := c.router.Routes()
		n := int(key - common.Key1)
		if n >= len(routes) {
			return nil
		}
		return c.navigateLocked(ctx, routes[n])
	case key == common.KeyLeft || key == common.KeyRight:
		routes := c.router.Routes()
		if len(routes) == 0 {
			return nil
		}
		step := 1
		if key == common.KeyLeft {
			step = -1
		}
		current, _ := c.router.Active()
		next := 0
		for i, p := range routes {
			if p == current {
				next = (i + step + len(routes)) % len(routes)
				break
			}
		}
		return c.navigateLocked(ctx, routes[next])
	}

	l := c.activeLabLocked()
	if l == nil {
		return nil
	}
	params := l.Params()

	switch key {
	case common.KeyTab:
		if n := params.Len(); n > 0 {
			c.selected = (c.selected + 1) % n
		}
	case common.KeyUp, common.KeyDown:
		keys := params.Keys()
		if len(keys) == 0 {
			return nil
		}
		steps := 1
		if key == common.KeyDown {
			steps = -1
		}
		// key comes from Keys, so Nudge cannot fail
		_, _ = params.Nudge(keys[c.selected], steps)
	case common.KeyR:
		params.Reset()
	}
	return nil
}

func (c *Controller) navigateLocked(ctx context.Context, path string) error {
	if err := c.router.Navigate(ctx, path); err != nil {
		return err
	}
	c.activeLabLocked()
	return nil
}

// activeLabLocked returns the mounted lab, resetting the slider selection when the route changed.
func (c *Controller) activeLabLocked() lab.Lab {
	path, view := c.router.Active()
	if path != c.path {
		c.path = path
		c.selected = 0
	}
	l, _ := view.(lab.Lab)
	return l
}

// ActiveLab returns the lab mounted by the router, or nil.
func (c *Controller) ActiveLab() lab.Lab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLabLocked()
}

// Selected returns the key of the selected slider, or "" when the active lab has none.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.activeLabLocked()
	if l == nil {
		return ""
	}
	keys := l.Params().Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[c.selected]
}

// Status describes the active lab and selected slider, for use as a window title.
//
// Parameters:
//   - prefix: the application name shown first
//
// Returns:
//   - string: e.g. "WebGL Lab | Sphere Mesh | Radius: 1.25"
func (c *Controller) Status(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.activeLabLocked()
	if l == nil {
		return prefix
	}
	sliders := l.Params().Snapshot()
	if len(sliders) == 0 {
		return fmt.Sprintf("%s | %s", prefix, l.Title())
	}
	s := sliders[c.selected]
	return fmt.Sprintf("%s | %s | %s: %.2f", prefix, l.Title(), s.Label, s.Value)
}
