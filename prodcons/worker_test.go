package prodcons

import (
	"context"
	"testing"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
)

func TestProducerConsumer(t *testing.T) {
	b := New[int](DefaultCapacity)
	p := NewProducer("producer", b, pause.Upto(time.Millisecond), nil)
	c := NewConsumer("consumer", b, pause.Upto(3*time.Millisecond), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	errs := make(chan error, 2)
	go func() { errs <- p.Run(ctx) }()
	go func() { errs <- c.Run(ctx) }()
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Errorf("Expecting nil on interruption but got %v", err)
		}
	}

	if c.Consumed() == 0 {
		t.Error("Expecting consumer to have taken some values")
	}
	if diff := p.Produced() - c.Consumed(); diff != b.Len() {
		t.Errorf("Expecting produced-consumed (%d) to equal buffered (%d)", diff, b.Len())
	}
}
