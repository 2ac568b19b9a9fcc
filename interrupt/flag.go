// Package interrupt provides a re-armable interrupt signal for goroutines
// and a small demonstration of a task that restarts when interrupted.
//
// A context.Context can only be cancelled once. An interrupt Flag, by
// contrast, may be raised any number of times: each raise is consumed by
// exactly one observation, after which the flag is clear again.
package interrupt

import (
	"context"
	"errors"
	"time"
)

// ErrInterrupted is returned by blocking operations cut short by an
// interrupt.
var ErrInterrupted = errors.New("interrupted")

// Flag is a pending-interrupt bit. The zero value is not usable, use
// NewFlag.
type Flag struct {
	ch chan struct{}
}

// NewFlag creates a cleared interrupt flag.
func NewFlag() *Flag {
	return &Flag{ch: make(chan struct{}, 1)}
}

// Interrupt raises the flag. Raising an already raised flag has no
// further effect.
func (f *Flag) Interrupt() {
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// Interrupted reports whether the flag was raised, clearing it.
func (f *Flag) Interrupted() bool {
	select {
	case <-f.ch:
		return true
	default:
		return false
	}
}

// Pending reports whether the flag is raised without clearing it.
func (f *Flag) Pending() bool {
	return len(f.ch) > 0
}

// C returns a channel which delivers a raised interrupt. Receiving from it
// clears the flag.
func (f *Flag) C() <-chan struct{} {
	return f.ch
}

// Sleep pauses for d. It returns ErrInterrupted, with the flag cleared, if
// the flag is raised before d elapses, or ctx.Err() if ctx is done first.
func (f *Flag) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-f.ch:
		return ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
