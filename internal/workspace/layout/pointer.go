package layout

import "sync"

// PointerHandler receives the pointer's horizontal position in logical px.
type PointerHandler func(x float64)

// PointerSource is the global pointer event feed a drag gesture listens to.
// Each registration returns a function that removes exactly that listener.
type PointerSource interface {
	OnPointerMove(fn PointerHandler) (remove func())
	OnPointerUp(fn PointerHandler) (remove func())
}

// Bus is an in-process PointerSource. Hosts feed it with Move and Up.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	move   map[uint64]PointerHandler
	up     map[uint64]PointerHandler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		move: make(map[uint64]PointerHandler),
		up:   make(map[uint64]PointerHandler),
	}
}

func (b *Bus) OnPointerMove(fn PointerHandler) func() {
	return b.add(b.move, fn)
}

func (b *Bus) OnPointerUp(fn PointerHandler) func() {
	return b.add(b.up, fn)
}

func (b *Bus) add(set map[uint64]PointerHandler, fn PointerHandler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	set[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(set, id)
			b.mu.Unlock()
		})
	}
}

// Move dispatches a pointer-move event.
func (b *Bus) Move(x float64) {
	for _, fn := range b.snapshot(b.move) {
		fn(x)
	}
}

// Up dispatches a pointer-up event.
func (b *Bus) Up(x float64) {
	for _, fn := range b.snapshot(b.up) {
		fn(x)
	}
}

// Listeners returns the number of live listeners.
func (b *Bus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.move) + len(b.up)
}

// handlers run outside the lock so they may detach themselves
func (b *Bus) snapshot(set map[uint64]PointerHandler) []PointerHandler {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PointerHandler, 0, len(set))
	for _, fn := range set {
		out = append(out, fn)
	}
	return out
}
