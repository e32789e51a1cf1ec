package scheduler

import (
	"sort"
	"time"
)

type timer struct {
	at time.Time
	f  func()
}

// fakeClock runs deferred callbacks synchronously from Advance.
type fakeClock struct {
	now    time.Time
	timers []timer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.timers = append(c.timers, timer{at: c.now.Add(d), f: f})
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at.Before(c.timers[j].at) })
		if len(c.timers) == 0 || c.timers[0].at.After(target) {
			break
		}
		t := c.timers[0]
		c.timers = c.timers[1:]
		c.now = t.at
		t.f()
	}
	c.now = target
}
