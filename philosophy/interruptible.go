package philosophy

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/mq-soft-tech/comp2000-threadsafety/interrupt"
)

// Interruptible is a philosopher that can be told to start over. Every
// pause and every wait for a chopstick gives way to an interrupt, after
// which the philosopher puts down whatever it holds and goes back to
// thinking.
type Interruptible struct {
	diner
	flag   *interrupt.Flag
	resets atomic.Int64
}

// NewInterruptible seats an interruptible philosopher between two
// chopsticks. leftHeld may be nil.
func NewInterruptible(id int, left, right *Chopstick, timing Timing, leftHeld *atomic.Int64, events chan<- Event) *Interruptible {
	p := &Interruptible{flag: interrupt.NewFlag()}
	p.init(id, left, right, timing, leftHeld, events)
	return p
}

// Interrupt asks the philosopher to put everything down and start again.
// Interrupts do not queue: several before the philosopher notices count as
// one.
func (p *Interruptible) Interrupt() { p.flag.Interrupt() }

// Resets returns the number of times the philosopher has started over.
func (p *Interruptible) Resets() int { return int(p.resets.Load()) }

// Run dines until ctx is done, starting over after each interrupt.
func (p *Interruptible) Run(ctx context.Context) error {
	for {
		err := p.dine(ctx)
		switch {
		case err == nil:
		case errors.Is(err, interrupt.ErrInterrupted):
			p.reset(ctx)
		default:
			return err
		}
	}
}

func (p *Interruptible) dine(ctx context.Context) error {
	p.setPhase(Thinking)
	if err := p.flag.Sleep(ctx, p.timing.Think.Next()); err != nil {
		return err
	}

	p.setPhase(WaitingLeft)
	if err := p.left.LockInterruptibly(ctx, p.flag.C()); err != nil {
		p.setPhase(Thinking)
		return err
	}
	p.lift(ctx, leftHand)
	defer p.putDown(ctx, leftHand)

	p.setPhase(Reaching)
	if err := p.flag.Sleep(ctx, p.timing.Reach.Next()); err != nil {
		return err
	}

	p.setPhase(WaitingRight)
	if err := p.right.LockInterruptibly(ctx, p.flag.C()); err != nil {
		// Gave up on the right chopstick; the left goes down on return.
		p.setPhase(Thinking)
		return err
	}
	p.lift(ctx, rightHand)
	defer p.putDown(ctx, rightHand)

	p.setPhase(Eating)
	if err := p.flag.Sleep(ctx, p.timing.Eat.Next()); err != nil {
		return err
	}
	p.meals.Add(1)
	p.emit(ctx, Ate, -1)
	return nil
}

// reset runs after dine has put both chopsticks down.
func (p *Interruptible) reset(ctx context.Context) {
	p.holdingLeft.Store(false)
	p.holdingRight.Store(false)
	p.setPhase(Thinking)
	p.resets.Add(1)
	p.emit(ctx, Reset, -1)
}
