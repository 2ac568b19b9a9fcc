package philosophy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSize is the number of philosophers at a default table.
const DefaultSize = 6

var (
	// ErrDeadlock is returned by Watch when every philosopher holds its
	// left chopstick.
	ErrDeadlock = errors.New("dinner party deadlocked")

	// ErrPartySize is returned by NewParty for tables of fewer than two.
	ErrPartySize = errors.New("a dinner party needs at least two philosophers")
)

// Variant selects the kind of philosopher at the table.
type Variant int

const (
	// FixedOrder seats Philosophers, which can deadlock.
	FixedOrder Variant = iota
	// Recoverable seats Interruptible philosophers.
	Recoverable
)

func (v Variant) String() string {
	switch v {
	case FixedOrder:
		return "fixed-order"
	case Recoverable:
		return "recoverable"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Config describes a dinner party.
type Config struct {
	Size    int     // number of philosophers, DefaultSize if 0
	Variant Variant // kind of philosopher
	Timing  *Timing // DefaultTiming() if nil
	Events  chan<- Event
	Logger  *log.Logger
}

// Party seats philosophers around a table and runs them.
type Party struct {
	variant    Variant
	chopsticks []*Chopstick
	diners     []Diner
	leftHeld   atomic.Int64
	logger     *log.Logger

	wg      sync.WaitGroup
	started atomic.Bool
}

// NewParty lays the table: chopsticks 0..n-1 and philosophers 0..n-1, with
// philosopher i between chopstick i on the left and chopstick (i+1) mod n
// on the right.
func NewParty(cfg Config) (*Party, error) {
	n := cfg.Size
	if n == 0 {
		n = DefaultSize
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrPartySize, n)
	}
	timing := DefaultTiming()
	if cfg.Timing != nil {
		timing = *cfg.Timing
	}
	p := &Party{
		variant:    cfg.Variant,
		chopsticks: NewChopsticks(n),
		diners:     make([]Diner, n),
		logger:     cfg.Logger,
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard, "", 0)
	}
	for i := range p.diners {
		left, right := p.chopsticks[i], p.chopsticks[(i+1)%n]
		switch cfg.Variant {
		case Recoverable:
			p.diners[i] = NewInterruptible(i, left, right, timing, &p.leftHeld, cfg.Events)
		default:
			p.diners[i] = NewPhilosopher(i, left, right, timing, &p.leftHeld, cfg.Events)
		}
	}
	return p, nil
}

// Size returns the number of philosophers.
func (p *Party) Size() int { return len(p.diners) }

// Variant returns the kind of philosopher at the table.
func (p *Party) Variant() Variant { return p.variant }

// Philosophers returns the philosophers in seat order.
func (p *Party) Philosophers() []Diner { return p.diners }

// Chopsticks returns the chopsticks in table order.
func (p *Party) Chopsticks() []*Chopstick { return p.chopsticks }

// Start runs every philosopher in its own goroutine until ctx is done.
// Only the first call has any effect.
func (p *Party) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	p.logger.Printf("Seating %d %s philosophers", len(p.diners), p.variant)
	for _, d := range p.diners {
		d := d
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if err := d.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
				p.logger.Printf("Philosopher %d: %v", d.ID(), err)
			}
		}()
	}
}

// Wait blocks until every philosopher has left the table. Fixed-order
// philosophers stuck waiting for a chopstick never leave, so after a
// deadlock Wait does not return.
func (p *Party) Wait() { p.wg.Wait() }

// LeftHeld returns the number of philosophers holding their left
// chopstick.
func (p *Party) LeftHeld() int { return int(p.leftHeld.Load()) }

// Deadlocked reports whether every philosopher holds its left chopstick.
// For fixed-order philosophers this state is permanent.
func (p *Party) Deadlocked() bool { return p.LeftHeld() == len(p.diners) }

// Snapshot returns the state of every seat. The seats are read one after
// another, not at a single instant.
func (p *Party) Snapshot() []Seat {
	seats := make([]Seat, len(p.diners))
	for i, d := range p.diners {
		seats[i] = d.Seat()
	}
	return seats
}

// Watch checks every interval whether the party has deadlocked, returning
// an error matching ErrDeadlock when it has, or ctx.Err() when ctx is done.
//
// Only a fixed-order table can deadlock for good. A recoverable table may
// have every left chopstick lifted at once until the next Restart, so
// Watch on it just waits for ctx.
func (p *Party) Watch(ctx context.Context, interval time.Duration) error {
	if p.variant == Recoverable {
		<-ctx.Done()
		return ctx.Err()
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		if p.Deadlocked() {
			return fmt.Errorf("%w: all %d philosophers hold their left chopstick", ErrDeadlock, len(p.diners))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}

// Restart interrupts every interruptible philosopher and returns how many
// were interrupted.
func (p *Party) Restart() int {
	n := 0
	for _, d := range p.diners {
		if ip, ok := d.(*Interruptible); ok {
			ip.Interrupt()
			n++
		}
	}
	if n > 0 {
		p.logger.Printf("Restarting %d philosophers", n)
	}
	return n
}

// ResetEvery calls Restart every interval until ctx is done, then returns
// ctx.Err().
func (p *Party) ResetEvery(ctx context.Context, interval time.Duration) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			p.Restart()
		}
	}
}
