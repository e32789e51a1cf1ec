package scheduler

import "time"

// SystemClock is the wall clock. Its AfterFunc runs f on a timer goroutine,
// so callers wrap it to hop back onto their event loop.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc calls time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }
