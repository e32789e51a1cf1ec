// Package scheduler throttles prediction requests triggered by buffer edits.
//
// The Scheduler is a two-state machine. In Idle the next edit fires at once.
// In Cooling (a request fired less than Cooldown ago, or a trailing call is
// pending) edits are coalesced into at most one trailing call, which fires
// TrailingDelay after the edit that scheduled it. The trailing call does not
// carry a snapshot: the fire callback reads the buffer when it runs, so the
// last edit of a burst is always the one sent.
//
// A Scheduler is not safe for concurrent use. It must be driven from a single
// event loop, and the Clock must run deferred callbacks on that same loop.
package scheduler

import (
	"time"

	"github.com/charmbracelet/log"
)

// State is the scheduler's throttle state.
type State int

const (
	// Idle means the next edit fires a request immediately.
	Idle State = iota
	// Cooling means edits are being coalesced into one trailing call.
	Cooling
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Cooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// Decision is what an edit caused.
type Decision int

const (
	// Fired means the request was sent immediately.
	Fired Decision = iota
	// Scheduled means a trailing call was armed.
	Scheduled
	// Absorbed means a trailing call was already armed.
	Absorbed
)

// String returns the human-readable name of the decision.
func (d Decision) String() string {
	switch d {
	case Fired:
		return "fired"
	case Scheduled:
		return "scheduled"
	case Absorbed:
		return "absorbed"
	default:
		return "unknown"
	}
}

// Config holds the throttle timings in milliseconds.
type Config struct {
	CooldownMs      int64 `toml:"cooldown_ms"`
	TrailingDelayMs int64 `toml:"trailing_delay_ms"`
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		CooldownMs:      200,
		TrailingDelayMs: 220,
	}
}

// applyDefaults fills in zero-valued fields with defaults.
func (c Config) applyDefaults() Config {
	d := DefaultConfig()
	if c.CooldownMs <= 0 {
		c.CooldownMs = d.CooldownMs
	}
	if c.TrailingDelayMs <= 0 {
		c.TrailingDelayMs = d.TrailingDelayMs
	}
	return c
}

// Cooldown returns the minimum spacing between immediate requests.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}

// TrailingDelay returns the delay of the trailing call.
func (c Config) TrailingDelay() time.Duration {
	return time.Duration(c.TrailingDelayMs) * time.Millisecond
}

// Clock supplies time and deferred execution.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

// Scheduler decides when an edit turns into a request.
type Scheduler struct {
	config  Config
	clock   Clock
	fire    func()
	last    time.Time
	pending bool
	// gen identifies the armed trailing call; older timers are ignored.
	gen uint64
}

// New creates a Scheduler that calls fire for every request it lets through.
// Zero-valued config fields are replaced with defaults.
func New(config Config, clock Clock, fire func()) *Scheduler {
	return &Scheduler{
		config: config.applyDefaults(),
		clock:  clock,
		fire:   fire,
	}
}

// Edit records a buffer edit.
func (s *Scheduler) Edit() Decision {
	now := s.clock.Now()
	if s.last.IsZero() || now.Sub(s.last) > s.config.Cooldown() {
		s.last = now
		s.fire()
		return Fired
	}
	if s.pending {
		return Absorbed
	}
	s.pending = true
	s.gen++
	gen := s.gen
	s.clock.AfterFunc(s.config.TrailingDelay(), func() { s.trailing(gen) })
	log.Debugf("scheduler: trailing call armed for %s", s.config.TrailingDelay())
	return Scheduled
}

func (s *Scheduler) trailing(gen uint64) {
	if !s.pending || gen != s.gen {
		return
	}
	s.pending = false
	s.last = s.clock.Now()
	s.fire()
}

// Flush runs an armed trailing call now instead of at its deadline and
// reports whether there was one. The original timer then does nothing.
func (s *Scheduler) Flush() bool {
	if !s.pending {
		return false
	}
	s.trailing(s.gen)
	return true
}

// State reports the current throttle state.
func (s *Scheduler) State() State {
	if s.pending {
		return Cooling
	}
	if !s.last.IsZero() && s.clock.Now().Sub(s.last) <= s.config.Cooldown() {
		return Cooling
	}
	return Idle
}

// Pending reports whether a trailing call is armed.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// LastFired returns when the last request fired, or the zero time.
func (s *Scheduler) LastFired() time.Time {
	return s.last
}
