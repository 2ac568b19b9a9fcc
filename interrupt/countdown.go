package interrupt

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
)

// DefaultStart is the value a Countdown starts from when none is given.
const DefaultStart = 100

// Countdown counts down from Start once per Tick and starts again from the
// top whenever its flag is raised. It finishes when the count reaches zero.
type Countdown struct {
	Start  int
	Tick   time.Duration
	Flag   *Flag
	Logger *log.Logger

	count    atomic.Int64
	restarts atomic.Int64
}

// NewCountdown creates a countdown from start with its own flag.
func NewCountdown(start int, tick time.Duration, logger *log.Logger) *Countdown {
	if start <= 0 {
		start = DefaultStart
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Countdown{
		Start:  start,
		Tick:   tick,
		Flag:   NewFlag(),
		Logger: logger,
	}
}

// Count returns the current value of the countdown.
func (c *Countdown) Count() int { return int(c.count.Load()) }

// Restarts returns the number of times the countdown was sent back to the
// start by an interrupt.
func (c *Countdown) Restarts() int { return int(c.restarts.Load()) }

// Run counts down to zero. It returns nil once the count is exhausted, or
// ctx.Err() if ctx is done first.
func (c *Countdown) Run(ctx context.Context) error {
	c.count.Store(int64(c.Start))
	for c.count.Load() > 0 {
		c.Logger.Printf("Count: %d", c.count.Add(-1)+1)

		// An interrupt that arrived while we were printing is honoured
		// straight away, one that arrives while sleeping cuts the tick short.
		if c.Flag.Interrupted() {
			c.restart()
		}
		switch err := c.Flag.Sleep(ctx, c.Tick); err {
		case nil:
		case ErrInterrupted:
			c.restart()
		default:
			return err
		}
	}
	return nil
}

func (c *Countdown) restart() {
	c.restarts.Add(1)
	c.count.Store(int64(c.Start))
	c.Logger.Printf("Interrupted, restarting from %d", c.Start)
}

// Interrupter raises a flag at random intervals drawn from Every until
// Run's context is done or Stop is closed.
type Interrupter struct {
	Target *Flag
	Every  pause.Range
	// Stop, if non-nil, ends the interrupter when closed. It is typically
	// the done channel of the goroutine being interrupted.
	Stop <-chan struct{}

	sent atomic.Int64
}

// Sent returns the number of interrupts raised so far.
func (i *Interrupter) Sent() int { return int(i.sent.Load()) }

// Run raises interrupts until stopped. It always returns nil once Stop is
// closed, or ctx.Err() when ctx is done.
func (i *Interrupter) Run(ctx context.Context) error {
	for {
		t := time.NewTimer(i.Every.Next())
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-i.Stop:
			t.Stop()
			return nil
		case <-t.C:
			i.Target.Interrupt()
			i.sent.Add(1)
		}
	}
}
