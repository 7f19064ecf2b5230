package framework

import (
	"sync/atomic"
	"time"
)

// TickRate is the frequency of the tick counter in Hz.
const TickRate = 1000000

// MonotonicTicks derives a 1MHz tick counter from the monotonic clock.
// Like a hardware counter it wraps around after 2^32 ticks.
type MonotonicTicks struct {
	start time.Time
}

// NewMonotonicTicks creates a MonotonicTicks starting from zero.
func NewMonotonicTicks() *MonotonicTicks {
	return &MonotonicTicks{start: time.Now()}
}

// Ticks implements TickSource.
func (t *MonotonicTicks) Ticks() uint32 {
	return uint32(time.Since(t.start) / (time.Second / TickRate))
}

// ManualTicks is a TickSource advanced explicitly.
type ManualTicks struct {
	value uint32
}

// NewManualTicks creates a ManualTicks at the given value.
func NewManualTicks(start uint32) *ManualTicks {
	return &ManualTicks{value: start}
}

// Ticks implements TickSource.
func (t *ManualTicks) Ticks() uint32 {
	return atomic.LoadUint32(&t.value)
}

// Set sets the current value.
func (t *ManualTicks) Set(value uint32) {
	atomic.StoreUint32(&t.value, value)
}

// Advance moves the counter forward, wrapping on overflow.
func (t *ManualTicks) Advance(ticks uint32) uint32 {
	return atomic.AddUint32(&t.value, ticks)
}

// ElapsedTicks returns the ticks from since to now, correct across a
// single wraparound of the counter.
func ElapsedTicks(since, now uint32) uint32 {
	return now - since
}

// TicksToMicros converts ticks to microseconds.
func TicksToMicros(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TickRate)
}

// DurationToTicks converts a duration to ticks.
func DurationToTicks(d time.Duration) uint32 {
	return uint32(d / (time.Second / TickRate))
}
