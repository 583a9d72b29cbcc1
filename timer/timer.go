// Package timer implements the game's one-shot event timers on top of time.AfterFunc.
package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"srstris/tetris"
)

type slot struct {
	t   *time.Timer
	gen atomic.Uint64
}

// Clock keeps one pending timer per event.
type Clock struct {
	mu        sync.Mutex
	slots     map[tetris.Event]*slot
	afterFunc func(time.Duration, func()) *time.Timer
}

func New() *Clock {
	return &Clock{
		slots:     make(map[tetris.Event]*slot),
		afterFunc: time.AfterFunc,
	}
}

// Arm runs fire once after d. A timer already pending for e is dropped.
func (c *Clock) Arm(e tetris.Event, d time.Duration, fire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slot(e)
	if s.t != nil {
		s.t.Stop()
	}
	// a callback that already started for a previous arm sees a newer
	// generation and does nothing. Holding mu while firing orders the
	// callback strictly before or after Arm and Cancel.
	gen := s.gen.Add(1)
	s.t = c.afterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if s.gen.Load() == gen {
			fire()
		}
	})
}

// Cancel stops the pending timer for e, if any, without firing it.
func (c *Clock) Cancel(e tetris.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slot(e)
	s.gen.Add(1)
	if s.t != nil {
		s.t.Stop()
		s.t = nil
	}
}

// Stop cancels every pending timer.
func (c *Clock) Stop() {
	for _, e := range []tetris.Event{tetris.Gravity, tetris.Lockdown} {
		c.Cancel(e)
	}
}

func (c *Clock) slot(e tetris.Event) *slot {
	s, ok := c.slots[e]
	if !ok {
		s = &slot{}
		c.slots[e] = s
	}
	return s
}
