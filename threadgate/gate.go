// Package threadgate implements a reusable gate at which goroutines can be
// held and later released, as described in "Java Concurrency in Practice"
// (Goetz et al., section 14.2).
//
// The gate counts how many times it has been opened. A goroutine arriving
// at Await notes the current count; once woken it may pass if the gate is
// open or if the count has moved on since it arrived. The second clause
// lets a waiter through even when the gate is opened and shut again before
// the waiter gets to run.
package threadgate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrInterrupted is returned by Await when its context is done first.
var ErrInterrupted = errors.New("gate wait interrupted")

// Gate is a reopenable barrier. The zero value is not usable, use New.
type Gate struct {
	mu         sync.Mutex
	cond       *sync.Cond
	open       atomic.Bool   // written under mu, read anywhere
	generation atomic.Uint64 // written under mu, read anywhere
	waiting    atomic.Int64
}

// New creates a closed gate.
func New() *Gate {
	g := &Gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Close shuts the gate. Goroutines arriving at Await from now on wait for
// the next Open or OpenThenClose.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open.Store(false)
}

// Open opens the gate, releasing every waiting goroutine and letting later
// arrivals straight through until the next Close.
func (g *Gate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open.Store(true)
	g.generation.Add(1)
	g.cond.Broadcast()
}

// OpenThenClose releases the goroutines waiting right now and leaves the
// gate shut behind them.
func (g *Gate) OpenThenClose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open.Store(false)
	g.generation.Add(1)
	g.cond.Broadcast()
}

// Await blocks until the gate is open or has been opened since the call
// began. It returns an error wrapping ErrInterrupted if ctx is done first.
func (g *Gate) Await(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	arrived := g.generation.Load()
	g.waiting.Add(1)
	defer g.waiting.Add(-1)
	if !g.open.Load() && ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.cond.Broadcast()
		})
		defer stop()
	}
	for !g.open.Load() && g.generation.Load() == arrived {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		g.cond.Wait()
	}
	return nil
}

// IsOpen reports whether the gate is open. It never blocks.
func (g *Gate) IsOpen() bool { return g.open.Load() }

// Waiting returns the number of goroutines inside Await which have
// recorded their arrival generation.
func (g *Gate) Waiting() int { return int(g.waiting.Load()) }

// Generation returns the number of times the gate has been opened.
func (g *Gate) Generation() uint64 { return g.generation.Load() }
