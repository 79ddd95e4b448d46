package layout

import (
	"math"
	"testing"

	"ojspace/internal/testutil"
	"ojspace/pkg/errors"
)

func newOpenController(t *testing.T, bus *Bus, vw float64, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController(bus, vw, opts...)
	testutil.AssertNoError(t, err)
	c.Open()
	return c
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertPx(t *testing.T, got, want float64) {
	t.Helper()
	if !approx(got, want) {
		t.Errorf("width = %v, want %v", got, want)
	}
}

func TestViewportResize_KeepsRatio(t *testing.T) {
	c := newOpenController(t, NewBus(), 1600, WithRatio(0.4))
	assertPx(t, c.State().WidthPx, 640.0)

	st, err := c.ViewportResized(1000)
	testutil.AssertNoError(t, err)
	assertPx(t, st.WidthPx, 400.0)
	testutil.AssertTrue(t, approx(st.WidthRatio, 0.4), "ratio preserved")

	st, _ = c.ViewportResized(1600)
	assertPx(t, st.WidthPx, 640.0)
	testutil.AssertTrue(t, approx(st.WidthRatio, 0.4), "ratio preserved")
}

func TestViewportResize_ClampsToBounds(t *testing.T) {
	c := newOpenController(t, NewBus(), 2000, WithRatio(0.7))
	assertPx(t, c.State().WidthPx, 1400.0)

	// 0.7*900 = 630 stays within [400, 630]
	st, _ := c.ViewportResized(900)
	assertPx(t, st.WidthPx, 630.0)

	c2 := newOpenController(t, NewBus(), 2000, WithRatio(0.3))
	// 0.3*1000 = 300 is raised to the 400 floor
	st, _ = c2.ViewportResized(1000)
	assertPx(t, st.WidthPx, 400.0)
	testutil.AssertTrue(t, approx(st.WidthRatio, 0.3), "ratio preserved")
}

func TestOpen_UsesSmallerFloorThanDrag(t *testing.T) {
	c := newOpenController(t, NewBus(), 800, WithRatio(0.3))
	// opening allows min(400, 0.3*800) = 240
	assertPx(t, c.State().WidthPx, 240.0)

	// recompute uses max(400, 240) = 400
	st, _ := c.ViewportResized(800)
	assertPx(t, st.WidthPx, 400.0)
}

func TestNarrowViewport_AutoClosesWithoutReopen(t *testing.T) {
	c := newOpenController(t, NewBus(), 1200)

	st, _ := c.ViewportResized(767)
	testutil.AssertFalse(t, st.Open, "panel should close below 768px")

	st, _ = c.ViewportResized(1600)
	testutil.AssertFalse(t, st.Open, "panel must not reopen on its own")

	st = c.Toggle()
	testutil.AssertTrue(t, st.Open, "toggle reopens")
	assertPx(t, st.WidthPx, 640.0)
}

func TestNarrowViewport_ClosedPanelUnaffected(t *testing.T) {
	c, err := NewController(NewBus(), 1200)
	testutil.AssertNoError(t, err)
	st, _ := c.ViewportResized(500)
	testutil.AssertFalse(t, st.Open, "closed panel stays closed")
	testutil.AssertEqual(t, st.Viewport, 500.0)
}

func TestDrag_UpdatesWidthAndRatio(t *testing.T) {
	bus := NewBus()
	c := newOpenController(t, bus, 1600, WithRatio(0.4))

	testutil.AssertTrue(t, c.BeginResize(960), "drag should start on an open panel")
	testutil.AssertEqual(t, bus.Listeners(), 2)
	testutil.AssertTrue(t, c.State().Resizing, "resizing sub-state")

	bus.Move(860)
	st := c.State()
	assertPx(t, st.WidthPx, 740.0)
	testutil.AssertTrue(t, approx(st.WidthRatio, 740.0/1600.0), "ratio follows width")

	bus.Move(0)
	assertPx(t, c.State().WidthPx, 1120.0)

	bus.Move(2000)
	assertPx(t, c.State().WidthPx, 480.0)

	bus.Up(1960)
	st = c.State()
	testutil.AssertFalse(t, st.Resizing, "pointer-up ends the gesture")
	testutil.AssertEqual(t, bus.Listeners(), 0)
	testutil.AssertTrue(t, approx(st.WidthRatio, 0.3), "ratio persisted at pointer-up")

	st, _ = c.ViewportResized(2000)
	assertPx(t, st.WidthPx, 600.0)
}

func TestDrag_ViewportResizeDoesNotFightPointer(t *testing.T) {
	bus := NewBus()
	c := newOpenController(t, bus, 1600, WithRatio(0.4))
	c.BeginResize(960)
	bus.Move(900)

	st, _ := c.ViewportResized(1500)
	assertPx(t, st.WidthPx, 700.0)
	bus.Up(900)
}

func TestDrag_RepeatedGesturesLeaveNoListeners(t *testing.T) {
	bus := NewBus()
	c := newOpenController(t, bus, 1600)
	for i := 0; i < 5; i++ {
		testutil.AssertTrue(t, c.BeginResize(900), "drag starts")
		testutil.AssertFalse(t, c.BeginResize(900), "a second gesture cannot start mid-drag")
		bus.Move(880)
		bus.Up(880)
		testutil.AssertEqual(t, bus.Listeners(), 0)
	}
}

func TestDispose_DetachesLiveListeners(t *testing.T) {
	bus := NewBus()
	c := newOpenController(t, bus, 1600)
	c.BeginResize(900)
	testutil.AssertEqual(t, bus.Listeners(), 2)

	c.Dispose()
	testutil.AssertEqual(t, bus.Listeners(), 0)
	testutil.AssertFalse(t, c.State().Resizing, "dispose ends the gesture")

	width := c.State().WidthPx
	bus.Move(100)
	testutil.AssertEqual(t, c.State().WidthPx, width)
	testutil.AssertFalse(t, c.BeginResize(900), "disposed controller does not attach")
}

func TestClose_EndsDrag(t *testing.T) {
	bus := NewBus()
	c := newOpenController(t, bus, 1600)
	c.BeginResize(900)

	c.Close()
	testutil.AssertEqual(t, bus.Listeners(), 0)

	c.Open()
	c.BeginResize(900)
	c.ViewportResized(600)
	testutil.AssertEqual(t, bus.Listeners(), 0)
}

func TestBeginResize_ClosedPanel(t *testing.T) {
	bus := NewBus()
	c, _ := NewController(bus, 1600)
	testutil.AssertFalse(t, c.BeginResize(100), "closed panel cannot be dragged")
	testutil.AssertEqual(t, bus.Listeners(), 0)
}

func TestOnChange(t *testing.T) {
	var seen []State
	c, _ := NewController(NewBus(), 1600, WithOnChange(func(st State) { seen = append(seen, st) }))
	c.Toggle()
	c.Toggle()
	testutil.AssertEqual(t, len(seen), 2)
	testutil.AssertTrue(t, seen[0].Open, "first change opens")
	testutil.AssertFalse(t, seen[1].Open, "second change closes")
}

func TestInvalidViewport(t *testing.T) {
	_, err := NewController(NewBus(), 0)
	testutil.AssertEqual(t, errors.GetCode(err), errors.ViewportInvalid)

	c, _ := NewController(NewBus(), 1000)
	_, err = c.ViewportResized(-1)
	testutil.AssertEqual(t, errors.GetCode(err), errors.ViewportInvalid)
	testutil.AssertEqual(t, c.State().Viewport, 1000.0)
}
