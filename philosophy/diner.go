package philosophy

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
)

// Phase is what a philosopher is doing.
type Phase int32

// Philosopher phases, in the order of one meal.
const (
	Thinking     Phase = iota // holds nothing
	WaitingLeft               // waiting to lift the left chopstick
	Reaching                  // has the left chopstick, pausing before reaching right
	WaitingRight              // has the left chopstick, waiting for the right
	Eating                    // has both chopsticks
)

func (p Phase) String() string {
	switch p {
	case Thinking:
		return "thinking"
	case WaitingLeft:
		return "waiting for left"
	case Reaching:
		return "reaching"
	case WaitingRight:
		return "waiting for right"
	case Eating:
		return "eating"
	}
	return fmt.Sprintf("Phase(%d)", int32(p))
}

// Timing sets the pauses in a philosopher's cycle.
type Timing struct {
	Think pause.Range // before reaching for the left chopstick
	Reach pause.Range // between lifting the left and reaching for the right
	Eat   pause.Range // with both chopsticks
}

// DefaultTiming returns the pauses used by the demonstrations.
func DefaultTiming() Timing {
	return Timing{
		Think: pause.Between(50*time.Millisecond, 200*time.Millisecond),
		Reach: pause.Upto(100 * time.Millisecond),
		Eat:   pause.Upto(100 * time.Millisecond),
	}
}

// EventKind classifies philosopher events.
type EventKind int

// Events a philosopher reports.
const (
	Lifted   EventKind = iota // a chopstick was lifted
	Released                  // a chopstick was put down
	Ate                       // a meal was finished
	Reset                     // an interrupt sent the philosopher back to thinking
)

// Event records one philosopher state change.
type Event struct {
	Philosopher  int
	Kind         EventKind
	Chopstick    int // for Lifted and Released, -1 otherwise
	HoldingLeft  bool
	HoldingRight bool
}

func (e Event) String() string {
	switch e.Kind {
	case Lifted:
		return fmt.Sprintf("Philosopher %d has lifted Chopstick %d.", e.Philosopher, e.Chopstick)
	case Released:
		return fmt.Sprintf("Philosopher %d has put down Chopstick %d.", e.Philosopher, e.Chopstick)
	case Ate:
		return fmt.Sprintf("Philosopher %d has eaten.", e.Philosopher)
	case Reset:
		return fmt.Sprintf("Philosopher %d was interrupted and starts again.", e.Philosopher)
	}
	return fmt.Sprintf("Philosopher %d: event %d", e.Philosopher, e.Kind)
}

// Seat is a snapshot of one philosopher taken from outside its goroutine.
type Seat struct {
	Philosopher  int
	Phase        Phase
	HoldingLeft  bool
	HoldingRight bool
	Left         int // chopstick identities
	Right        int
	Meals        int
}

// Diner is a philosopher of either kind.
type Diner interface {
	ID() int
	Run(ctx context.Context) error
	HoldingLeft() bool
	HoldingRight() bool
	Seat() Seat
}

type hand int

const (
	leftHand hand = iota
	rightHand
)

// diner is the state both kinds of philosopher share. Only the
// philosopher's own goroutine writes it; anyone may read it.
type diner struct {
	id          int
	left, right *Chopstick
	timing      Timing
	leftHeld    *atomic.Int64 // party-wide count of lifted left chopsticks
	events      chan<- Event

	phase        atomic.Int32
	holdingLeft  atomic.Bool
	holdingRight atomic.Bool
	meals        atomic.Int64
}

func (d *diner) init(id int, left, right *Chopstick, timing Timing, leftHeld *atomic.Int64, events chan<- Event) {
	if leftHeld == nil {
		leftHeld = new(atomic.Int64)
	}
	d.id = id
	d.left, d.right = left, right
	d.timing = timing
	d.leftHeld = leftHeld
	d.events = events
}

// ID returns the philosopher's identity.
func (d *diner) ID() int { return d.id }

// Left returns the chopstick to the philosopher's left.
func (d *diner) Left() *Chopstick { return d.left }

// Right returns the chopstick to the philosopher's right.
func (d *diner) Right() *Chopstick { return d.right }

// HoldingLeft reports whether the philosopher holds the left chopstick.
func (d *diner) HoldingLeft() bool { return d.holdingLeft.Load() }

// HoldingRight reports whether the philosopher holds the right chopstick.
func (d *diner) HoldingRight() bool { return d.holdingRight.Load() }

// Phase returns what the philosopher is doing.
func (d *diner) Phase() Phase { return Phase(d.phase.Load()) }

// Meals returns the number of meals eaten.
func (d *diner) Meals() int { return int(d.meals.Load()) }

// Seat returns a snapshot of the philosopher.
func (d *diner) Seat() Seat {
	return Seat{
		Philosopher:  d.id,
		Phase:        d.Phase(),
		HoldingLeft:  d.HoldingLeft(),
		HoldingRight: d.HoldingRight(),
		Left:         d.left.ID(),
		Right:        d.right.ID(),
		Meals:        d.Meals(),
	}
}

func (d *diner) String() string {
	return fmt.Sprintf("Philosopher %d", d.id)
}

func (d *diner) setPhase(p Phase) { d.phase.Store(int32(p)) }

// lift records that the chopstick in hand h has been locked.
func (d *diner) lift(ctx context.Context, h hand) {
	stick := d.left
	if h == leftHand {
		d.holdingLeft.Store(true)
		d.leftHeld.Add(1)
	} else {
		stick = d.right
		d.holdingRight.Store(true)
	}
	d.emit(ctx, Lifted, stick.ID())
}

// putDown clears the hand and unlocks its chopstick.
func (d *diner) putDown(ctx context.Context, h hand) {
	stick := d.left
	if h == leftHand {
		d.holdingLeft.Store(false)
		d.leftHeld.Add(-1)
	} else {
		stick = d.right
		d.holdingRight.Store(false)
	}
	stick.Unlock()
	d.emit(ctx, Released, stick.ID())
}

// emit delivers an event if anybody listens, giving up when ctx is done.
func (d *diner) emit(ctx context.Context, kind EventKind, chopstick int) {
	if d.events == nil {
		return
	}
	ev := Event{
		Philosopher:  d.id,
		Kind:         kind,
		Chopstick:    chopstick,
		HoldingLeft:  d.holdingLeft.Load(),
		HoldingRight: d.holdingRight.Load(),
	}
	select {
	case d.events <- ev:
	case <-ctx.Done():
	}
}
