package philosophy

import (
	"context"
	"sync/atomic"

	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
)

// Philosopher always lifts the left chopstick first and waits for each
// chopstick for as long as it takes. A table of them can deadlock.
type Philosopher struct {
	diner
}

// NewPhilosopher seats a fixed-order philosopher between two chopsticks.
// leftHeld, which may be nil, is incremented while the philosopher holds
// its left chopstick.
func NewPhilosopher(id int, left, right *Chopstick, timing Timing, leftHeld *atomic.Int64, events chan<- Event) *Philosopher {
	p := new(Philosopher)
	p.init(id, left, right, timing, leftHeld, events)
	return p
}

// Run dines until ctx is done. Cancellation is noticed during pauses only;
// a philosopher waiting for a chopstick keeps waiting.
func (p *Philosopher) Run(ctx context.Context) error {
	for {
		if err := p.dine(ctx); err != nil {
			return err
		}
	}
}

func (p *Philosopher) dine(ctx context.Context) error {
	p.setPhase(Thinking)
	if err := pause.Sleep(ctx, p.timing.Think.Next()); err != nil {
		return err
	}

	p.setPhase(WaitingLeft)
	p.left.Lock()
	p.lift(ctx, leftHand)
	defer p.putDown(ctx, leftHand)

	p.setPhase(Reaching)
	if err := pause.Sleep(ctx, p.timing.Reach.Next()); err != nil {
		return err
	}

	p.setPhase(WaitingRight)
	p.right.Lock()
	p.lift(ctx, rightHand)
	defer p.putDown(ctx, rightHand)

	p.setPhase(Eating)
	if err := pause.Sleep(ctx, p.timing.Eat.Next()); err != nil {
		return err
	}
	p.meals.Add(1)
	p.emit(ctx, Ate, -1)
	return nil
}
