package prodcons

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
	"github.com/valyala/fastrand"
)

// DefaultMaxPause bounds the random pause a producer or consumer takes
// before each operation.
const DefaultMaxPause = time.Second

// Producer puts random values into a buffer at random intervals.
type Producer struct {
	Name   string
	Buffer *BoundedBuffer[int]
	Pause  pause.Range
	Logger *log.Logger

	produced atomic.Int64
}

// NewProducer creates a producer writing to buf.
func NewProducer(name string, buf *BoundedBuffer[int], p pause.Range, logger *log.Logger) *Producer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Producer{Name: name, Buffer: buf, Pause: p, Logger: logger}
}

// Produced returns the number of values put so far.
func (p *Producer) Produced() int { return int(p.produced.Load()) }

// Run produces values until ctx is done. Interruption is the normal way
// for a producer to finish, so Run returns nil in that case.
func (p *Producer) Run(ctx context.Context) error {
	for {
		if err := pause.Sleep(ctx, p.Pause.Next()); err != nil {
			return nil
		}
		v := int(fastrand.Uint32())
		if p.Buffer.Len() == p.Buffer.Cap() {
			p.Logger.Printf("%s: waiting for some buffer space!", p.Name)
		}
		if err := p.Buffer.Put(ctx, v); err != nil {
			if errors.Is(err, ErrInterrupted) {
				return nil
			}
			return err
		}
		p.produced.Add(1)
		p.Logger.Printf("%s: value produced: %d", p.Name, v)
	}
}

// Consumer takes values from a buffer at random intervals.
type Consumer struct {
	Name   string
	Buffer *BoundedBuffer[int]
	Pause  pause.Range
	Logger *log.Logger

	consumed atomic.Int64
}

// NewConsumer creates a consumer reading from buf.
func NewConsumer(name string, buf *BoundedBuffer[int], p pause.Range, logger *log.Logger) *Consumer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Consumer{Name: name, Buffer: buf, Pause: p, Logger: logger}
}

// Consumed returns the number of values taken so far.
func (c *Consumer) Consumed() int { return int(c.consumed.Load()) }

// Run consumes values until ctx is done, returning nil on interruption.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := pause.Sleep(ctx, c.Pause.Next()); err != nil {
			return nil
		}
		if c.Buffer.Len() == 0 {
			c.Logger.Printf("%s: waiting for a value to become available!", c.Name)
		}
		v, err := c.Buffer.Get(ctx)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				return nil
			}
			return err
		}
		c.consumed.Add(1)
		c.Logger.Printf("%s: value consumed: %d", c.Name, v)
	}
}
