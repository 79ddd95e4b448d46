// Package layout owns the side panel that hosts the editor and debug panel:
// whether it is open, its pixel width, and the width ratio that survives
// viewport changes.
package layout

import (
	"math"
	"sync"

	"ojspace/pkg/errors"
)

const (
	// NarrowViewport is the width below which an open panel closes itself.
	NarrowViewport = 768.0
	// MinPanelWidth is the smallest width a dragged panel may take.
	MinPanelWidth = 400.0
	MinRatio      = 0.3
	MaxRatio      = 0.7
	DefaultRatio  = 0.4
)

// State is a value copy of the controller.
type State struct {
	Open       bool
	Resizing   bool
	WidthPx    float64
	WidthRatio float64
	Viewport   float64
}

// Controller is the layout state machine: closed/open with a resizing
// sub-state while a drag gesture is live.
type Controller struct {
	mu  sync.Mutex
	src PointerSource

	open     bool
	ratio    float64
	widthPx  float64
	viewport float64

	resizing   bool
	startX     float64
	startWidth float64
	detach     []func()
	pending    []func()
	disposed   bool

	onChange func(State)
}

// Option configures a Controller.
type Option func(*Controller)

// WithRatio sets the initial width ratio.
func WithRatio(ratio float64) Option {
	return func(c *Controller) {
		if ratio > 0 {
			c.ratio = math.Min(math.Max(ratio, MinRatio), MaxRatio)
		}
	}
}

// WithOnChange registers a callback that receives every state change.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController creates a closed panel for a viewport of width vw.
func NewController(src PointerSource, vw float64, opts ...Option) (*Controller, error) {
	if vw <= 0 {
		return nil, errors.New(errors.ViewportInvalid).WithDetail("viewport", vw)
	}
	c := &Controller{src: src, ratio: DefaultRatio, viewport: vw}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current layout.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Toggle flips between open and closed.
func (c *Controller) Toggle() State {
	c.mu.Lock()
	if c.open {
		c.closeLocked()
	} else {
		c.openLocked()
	}
	return c.commit()
}

// Open shows the panel at the width derived from the persisted ratio.
func (c *Controller) Open() State {
	c.mu.Lock()
	if !c.open {
		c.openLocked()
	}
	return c.commit()
}

// Close hides the panel. A live drag gesture ends with it.
func (c *Controller) Close() State {
	c.mu.Lock()
	c.closeLocked()
	return c.commit()
}

// ViewportResized reacts to a new viewport width. A narrow viewport closes an
// open panel; reopening is left to the user. Otherwise the width follows the
// ratio unless a drag is in progress.
func (c *Controller) ViewportResized(vw float64) (State, error) {
	if vw <= 0 {
		return c.State(), errors.New(errors.ViewportInvalid).WithDetail("viewport", vw)
	}
	c.mu.Lock()
	c.viewport = vw
	switch {
	case c.open && vw < NarrowViewport:
		c.closeLocked()
	case c.open && !c.resizing:
		c.widthPx = clampWidth(c.ratio*vw, dragFloor(vw), vw*MaxRatio)
	}
	return c.commit(), nil
}

// BeginResize enters the resizing sub-state at pointer position x and
// listens for pointer moves until the pointer is released.
func (c *Controller) BeginResize(x float64) bool {
	c.mu.Lock()
	if !c.open || c.resizing || c.disposed || c.src == nil {
		c.mu.Unlock()
		return false
	}
	c.resizing = true
	c.startX = x
	c.startWidth = c.widthPx
	c.mu.Unlock()

	removeMove := c.src.OnPointerMove(c.pointerMove)
	removeUp := c.src.OnPointerUp(c.pointerUp)

	c.mu.Lock()
	if !c.resizing {
		// closed or disposed while attaching
		c.mu.Unlock()
		removeMove()
		removeUp()
		return false
	}
	c.detach = []func(){removeMove, removeUp}
	c.commit()
	return true
}

// Dispose removes any live pointer listeners. The controller stays readable.
func (c *Controller) Dispose() {
	c.mu.Lock()
	c.disposed = true
	detach := c.endResizeLocked()
	c.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

// pointerMove: the handle sits on the panel's left edge, so moving left widens it.
func (c *Controller) pointerMove(x float64) {
	c.mu.Lock()
	if !c.resizing {
		c.mu.Unlock()
		return
	}
	width := c.startWidth + (c.startX - x)
	c.widthPx = clampWidth(width, dragFloor(c.viewport), c.viewport*MaxRatio)
	c.ratio = c.widthPx / c.viewport
	c.commit()
}

func (c *Controller) pointerUp(x float64) {
	c.pointerMove(x)
	c.mu.Lock()
	detach := c.endResizeLocked()
	st := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()
	for _, remove := range detach {
		remove()
	}
	if fn != nil && detach != nil {
		fn(st)
	}
}

func (c *Controller) openLocked() {
	c.open = true
	c.widthPx = clampWidth(c.ratio*c.viewport, openFloor(c.viewport), c.viewport*MaxRatio)
}

func (c *Controller) closeLocked() {
	c.open = false
	// removed outside the lock by commit
	c.pending = append(c.pending, c.endResizeLocked()...)
}

func (c *Controller) endResizeLocked() []func() {
	if !c.resizing {
		return nil
	}
	c.resizing = false
	detach := c.detach
	c.detach = nil
	return detach
}

// commit releases the lock, runs deferred detaches and notifies the observer.
func (c *Controller) commit() State {
	st := c.stateLocked()
	fn := c.onChange
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, remove := range pending {
		remove()
	}
	if fn != nil {
		fn(st)
	}
	return st
}

func (c *Controller) stateLocked() State {
	return State{
		Open:       c.open,
		Resizing:   c.resizing,
		WidthPx:    c.widthPx,
		WidthRatio: c.ratio,
		Viewport:   c.viewport,
	}
}

// openFloor is the lower bound used when the panel opens.
func openFloor(vw float64) float64 {
	return math.Min(MinPanelWidth, vw*MinRatio)
}

// dragFloor is the lower bound used while dragging and on viewport changes.
func dragFloor(vw float64) float64 {
	return math.Max(MinPanelWidth, vw*MinRatio)
}

func clampWidth(width, lo, hi float64) float64 {
	if lo > hi {
		lo = hi
	}
	return math.Min(math.Max(width, lo), hi)
}
