package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	buffer string
	sent   []string
	at     []time.Duration
}

func TestSchedulerCoalescesBurst(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	rec := &recorder{}
	s := New(DefaultConfig(), clock, func() {
		rec.sent = append(rec.sent, rec.buffer)
		rec.at = append(rec.at, clock.Now().Sub(start))
	})

	rec.buffer = "t"
	assert.Equal(t, Fired, s.Edit())
	assert.Equal(t, Cooling, s.State())

	clock.Advance(50 * time.Millisecond)
	rec.buffer = "th"
	assert.Equal(t, Scheduled, s.Edit())
	assert.True(t, s.Pending())

	clock.Advance(50 * time.Millisecond)
	rec.buffer = "the"
	assert.Equal(t, Absorbed, s.Edit())

	clock.Advance(time.Second)

	require.Equal(t, []string{"t", "the"}, rec.sent)
	assert.Equal(t, []time.Duration{0, 270 * time.Millisecond}, rec.at)
	assert.False(t, s.Pending())
	assert.Equal(t, Idle, s.State())
}

func TestSchedulerFiresAfterCooldown(t *testing.T) {
	clock := newFakeClock()
	fired := 0
	s := New(Config{}, clock, func() { fired++ })

	assert.Equal(t, Fired, s.Edit())
	clock.Advance(200 * time.Millisecond)
	// Exactly at the threshold is still cooling.
	assert.Equal(t, Scheduled, s.Edit())
	clock.Advance(220 * time.Millisecond)
	assert.Equal(t, 2, fired)

	clock.Advance(201 * time.Millisecond)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, Fired, s.Edit())
	assert.Equal(t, 3, fired)
}

func TestSchedulerTrailingUpdatesTimestamp(t *testing.T) {
	clock := newFakeClock()
	fired := 0
	s := New(DefaultConfig(), clock, func() { fired++ })

	s.Edit()
	clock.Advance(10 * time.Millisecond)
	s.Edit()
	clock.Advance(220 * time.Millisecond)
	require.Equal(t, 2, fired)
	assert.Equal(t, clock.Now(), s.LastFired())

	// The trailing call restarted the cooldown.
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, Scheduled, s.Edit())
}

func TestSchedulerAtMostOnePending(t *testing.T) {
	clock := newFakeClock()
	s := New(DefaultConfig(), clock, func() {})

	s.Edit()
	for range 20 {
		clock.Advance(5 * time.Millisecond)
		s.Edit()
	}
	assert.Len(t, clock.timers, 1)
}

func TestSchedulerCustomConfig(t *testing.T) {
	clock := newFakeClock()
	fired := 0
	s := New(Config{CooldownMs: 1000, TrailingDelayMs: 50}, clock, func() { fired++ })

	s.Edit()
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, Scheduled, s.Edit())
	clock.Advance(49 * time.Millisecond)
	assert.Equal(t, 1, fired)
	clock.Advance(time.Millisecond)
	assert.Equal(t, 2, fired)
}

func TestSchedulerFlushRunsTrailingNow(t *testing.T) {
	clock := newFakeClock()
	fired := 0
	s := New(DefaultConfig(), clock, func() { fired++ })

	assert.False(t, s.Flush())
	s.Edit()
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, Scheduled, s.Edit())

	assert.True(t, s.Flush())
	assert.Equal(t, 2, fired)
	assert.False(t, s.Pending())
	assert.Equal(t, clock.Now(), s.LastFired())

	// The timer armed before the flush is spent.
	clock.Advance(time.Second)
	assert.Equal(t, 2, fired)
	assert.False(t, s.Flush())
}

func TestSchedulerStaleTimerDoesNotFireNewCall(t *testing.T) {
	clock := newFakeClock()
	fired := 0
	s := New(DefaultConfig(), clock, func() { fired++ })

	s.Edit()
	clock.Advance(10 * time.Millisecond)
	s.Edit()
	s.Flush()
	require.Equal(t, 2, fired)

	// A new trailing call armed 100ms later must wait its own 220ms.
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, Scheduled, s.Edit())
	clock.Advance(130 * time.Millisecond)
	assert.Equal(t, 2, fired)
	assert.True(t, s.Pending())
	clock.Advance(90 * time.Millisecond)
	assert.Equal(t, 3, fired)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "cooling", Cooling.String())
	assert.Equal(t, "absorbed", Absorbed.String())
	assert.Equal(t, "unknown", State(9).String())
}
