package layout

import "github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"

// None marks an empty focus, drag or hover slot.
const None = -1

// Context is the UI state a layout pass reads: the viewport, the toolbar
// obstacle and the single focused, dragged and hovered node. Setting a slot
// replaces its previous holder, so at most one node holds each state.
type Context struct {
	Viewport geom.Vec2
	Toolbar  geom.Rect

	focused, dragged, hovered int

	last        geom.Vec2
	initialized bool
}

// NewContext returns a context for a w×h viewport with all slots empty.
func NewContext(w, h float64) *Context {
	return &Context{
		Viewport: geom.Vec2{X: w, Y: h},
		focused:  None,
		dragged:  None,
		hovered:  None,
	}
}

// Resize changes the viewport. Positions are rescaled on the next pass if
// the viewport shrank.
func (c *Context) Resize(w, h float64) { c.Viewport = geom.Vec2{X: w, Y: h} }

// Frame returns the viewport rectangle.
func (c *Context) Frame() geom.Rect { return geom.Rect{W: c.Viewport.X, H: c.Viewport.Y} }

// Focus makes id the focused node; None clears the focus.
func (c *Context) Focus(id int) { c.focused = id }

// Focused returns the focused node.
func (c *Context) Focused() (int, bool) { return c.focused, c.focused != None }

// Drag marks id as dragged; None ends the drag.
func (c *Context) Drag(id int) { c.dragged = id }

// Dragged returns the dragged node.
func (c *Context) Dragged() (int, bool) { return c.dragged, c.dragged != None }

// Hover marks id as hovered; None clears the hover.
func (c *Context) Hover(id int) { c.hovered = id }

// Hovered returns the hovered node.
func (c *Context) Hovered() (int, bool) { return c.hovered, c.hovered != None }

// Pinned reports whether the simulation must not move id.
func (c *Context) Pinned(id int) bool {
	return id != None && (id == c.focused || id == c.dragged || id == c.hovered)
}

// Forget clears every slot held by id, used when a node disappears.
func (c *Context) Forget(id int) {
	if c.focused == id {
		c.focused = None
	}
	if c.dragged == id {
		c.dragged = None
	}
	if c.hovered == id {
		c.hovered = None
	}
}

// Initialized reports whether the initial grid layout has run.
func (c *Context) Initialized() bool { return c.initialized }

// Reset forces a new initial layout on the next pass.
func (c *Context) Reset() { c.initialized = false }
