package tetris

import (
	"math/rand/v2"
	"sync"
	"time"
)

// mockTimer records armed events and lets tests fire them by hand.
type mockTimer struct {
	mu       sync.Mutex
	fire     map[Event]func()
	delay    map[Event]time.Duration
	armed    map[Event]int
	canceled map[Event]int
}

func newMockTimer() *mockTimer {
	return &mockTimer{
		fire:     make(map[Event]func()),
		delay:    make(map[Event]time.Duration),
		armed:    make(map[Event]int),
		canceled: make(map[Event]int),
	}
}

func (m *mockTimer) Arm(e Event, d time.Duration, fire func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fire[e] = fire
	m.delay[e] = d
	m.armed[e]++
}

func (m *mockTimer) Cancel(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fire, e)
	m.canceled[e]++
}

// Fire runs the pending callback of e, like the real timer expiring.
func (m *mockTimer) Fire(e Event) bool {
	m.mu.Lock()
	f, ok := m.fire[e]
	delete(m.fire, e)
	m.mu.Unlock()
	if ok {
		f()
	}
	return ok
}

// Pending reports whether e is armed and not canceled or fired.
func (m *mockTimer) Pending(e Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.fire[e]
	return ok
}

func (m *mockTimer) Armed(e Event) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed[e]
}

// mockInput hands out a scripted list of actions, then NoAction.
type mockInput struct {
	actions []Action
	err     error
}

func (m *mockInput) Push(a ...Action) { m.actions = append(m.actions, a...) }

func (m *mockInput) Read() (Action, error) {
	if m.err != nil {
		return NoAction, m.err
	}
	if len(m.actions) == 0 {
		return NoAction, nil
	}
	a := m.actions[0]
	m.actions = m.actions[1:]
	return a, nil
}

// mockRender counts draws and keeps the last queue and hold it was given.
type mockRender struct {
	matrix, queue, hold, refresh int

	lastQueue []Tetrimino
	lastHold  Tetrimino
	err       error
}

func (m *mockRender) DrawMatrix(*Matrix) error { m.matrix++; return m.err }
func (m *mockRender) DrawQueue(q []Tetrimino) error {
	m.queue++
	m.lastQueue = q
	return m.err
}
func (m *mockRender) DrawHold(h Tetrimino) error { m.hold++; m.lastHold = h; return m.err }
func (m *mockRender) Refresh() error             { m.refresh++; return m.err }

// fixedBag returns a bag that hands out kinds in the given order before
// falling back to shuffled bags.
func fixedBag(kinds ...Tetrimino) *Bag {
	front := make([]Tetrimino, len(kinds))
	for i, k := range kinds {
		front[len(kinds)-1-i] = k
	}
	b := &Bag{rng: rand.New(rand.NewPCG(1, 1))}
	b.queue = [][]Tetrimino{front}
	b.fill()
	return b
}

// NewTestGame creates a game wired to mocks. When kinds are given the bag
// hands them out first.
func NewTestGame(kinds ...Tetrimino) (*Game, *mockTimer, *mockInput, *mockRender) {
	timer := newMockTimer()
	input := &mockInput{}
	render := &mockRender{}
	g := NewGame(&Options{
		Input:    input,
		Timer:    timer,
		Renderer: render,
		Seed:     1,
	})
	if len(kinds) > 0 {
		g.bag = fixedBag(kinds...)
	}
	return g, timer, input, render
}

// fillRow sets every playfield cell of row y to t, except the given columns.
func fillRow(m *Matrix, y int, t Tetrimino, except ...int) {
	for x := Left; x < Right; x++ {
		m.Set(x, y, t)
	}
	for _, x := range except {
		m.Set(x, y, None)
	}
}
