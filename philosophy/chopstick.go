// Package philosophy simulates the dining philosophers.
//
// N philosophers sit at a round table with one chopstick between each pair
// of neighbours. Philosopher i has chopstick i on the left and chopstick
// (i+1) mod N on the right. Each philosopher thinks, lifts the left
// chopstick, lifts the right chopstick, eats, and puts both down again.
//
// Two kinds of philosopher are provided. A Philosopher always waits for its
// chopsticks with a plain lock, so if every philosopher lifts the left
// chopstick at the same time the party deadlocks for good; a Party can
// detect this by counting left hands. An Interruptible philosopher waits in
// a way that can be interrupted, and on an interrupt puts down what it holds
// and starts over, so an outside driver can break a deadlock by restarting
// everybody.
package philosophy

import (
	"context"
	"fmt"

	"github.com/mq-soft-tech/comp2000-threadsafety/interrupt"
)

// Chopstick is an exclusive lock with an identity. A philosopher lifts a
// chopstick by locking it.
//
// The lock is a one-slot channel, so that waiting for it can be combined
// with waiting for an interrupt or a context.
type Chopstick struct {
	id  int
	sem chan struct{}
}

// NewChopstick creates an unheld chopstick with the given identity.
func NewChopstick(id int) *Chopstick {
	return &Chopstick{id: id, sem: make(chan struct{}, 1)}
}

// NewChopsticks creates n chopsticks numbered 0 to n-1.
func NewChopsticks(n int) []*Chopstick {
	sticks := make([]*Chopstick, n)
	for i := range sticks {
		sticks[i] = NewChopstick(i)
	}
	return sticks
}

// ID returns the chopstick's identity.
func (c *Chopstick) ID() int { return c.id }

func (c *Chopstick) String() string {
	return fmt.Sprintf("Chopstick %d", c.id)
}

// Lock lifts the chopstick, waiting for as long as it takes.
func (c *Chopstick) Lock() {
	c.sem <- struct{}{}
}

// TryLock lifts the chopstick if nobody holds it.
func (c *Chopstick) TryLock() bool {
	select {
	case c.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// LockInterruptibly lifts the chopstick, giving up with
// interrupt.ErrInterrupted if a value arrives on intr first, or with
// ctx.Err() if ctx is done first. An interrupt already pending on entry is
// honoured before trying the lock.
func (c *Chopstick) LockInterruptibly(ctx context.Context, intr <-chan struct{}) error {
	select {
	case <-intr:
		return interrupt.ErrInterrupted
	default:
	}
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-intr:
		return interrupt.ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock puts the chopstick down. It panics if the chopstick is not held.
func (c *Chopstick) Unlock() {
	select {
	case <-c.sem:
	default:
		panic("philosophy: unlock of unheld " + c.String())
	}
}

// IsHeld reports whether someone holds the chopstick. The answer is for
// display only and may be out of date as soon as it is returned; never use
// it to decide whether to lock.
func (c *Chopstick) IsHeld() bool {
	return len(c.sem) > 0
}
