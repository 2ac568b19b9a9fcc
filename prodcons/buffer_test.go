package prodcons

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Sequential FIFO behaviour, including index folding over several laps.
func TestBufferSequential(t *testing.T) {
	const N = 100
	b := New[int](DefaultCapacity)
	ctx := context.Background()
	for i := 0; i < N; i++ {
		if err := b.Put(ctx, i); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
		if i%2 == 1 {
			for j := 0; j < 2; j++ {
				v, err := b.Get(ctx)
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if want := i - 1 + j; v != want {
					t.Fatalf("Expecting %d but got %d (FIFO violated)", want, v)
				}
			}
		}
		if b.Len() < 0 || b.Len() > b.Cap() {
			t.Fatalf("Len %d out of range [0, %d]", b.Len(), b.Cap())
		}
	}
	if b.Len() != 0 {
		t.Errorf("Expecting empty buffer but Len=%d", b.Len())
	}
}

// put 1, 2, 3 succeed; the 4th put blocks until a get returns 1, after
// which the buffer holds [2 3 4].
func TestBufferFullScenario(t *testing.T) {
	b := New[int](3)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if err := b.Put(ctx, i); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	var put4 atomic.Bool
	done := make(chan error, 1)
	go func() {
		err := b.Put(ctx, 4)
		put4.Store(true)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	if put4.Load() {
		t.Fatal("Expecting 4th put to block on a full buffer")
	}

	v, err := b.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 1 {
		t.Errorf("Expecting get to return 1 but got %d", v)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("put 4: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("4th put still blocked after a get")
	}
	if got, want := b.Snapshot(), []int{2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expecting buffer %v but got %v", want, got)
	}
}

// A get on an empty buffer is released by exactly one put.
func TestBufferEmptyReleasedByPut(t *testing.T) {
	b := New[string](3)
	got := make(chan string, 1)
	go func() {
		v, err := b.Get(context.Background())
		if err != nil {
			t.Errorf("get: %v", err)
		}
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case v := <-got:
		t.Fatalf("Expecting get to block on an empty buffer but got %q", v)
	default:
	}
	if err := b.Put(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	select {
	case v := <-got:
		if v != "x" {
			t.Errorf("Expecting x but got %q", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("get still blocked after a put")
	}
}

func TestBufferInterrupted(t *testing.T) {
	b := New[int](1)
	if err := b.Put(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Put(ctx, 2) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrInterrupted) {
			t.Errorf("Expecting ErrInterrupted but got %v", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expecting the context error to be wrapped but got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("put not released by cancellation")
	}
	if got := b.Snapshot(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Expecting interrupted put to leave [1] but got %v", got)
	}

	empty := New[int](1)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel2()
	if _, err := empty.Get(ctx2); !errors.Is(err, ErrInterrupted) {
		t.Errorf("Expecting ErrInterrupted from get but got %v", err)
	}
}

// Many producers, many consumers: every value arrives exactly once and the
// occupancy never leaves [0, cap].
func TestBufferConcurrent(t *testing.T) {
	const (
		producers   = 4
		consumers   = 3
		perProducer = 500
		N           = producers * perProducer
	)
	b := New[int](DefaultCapacity)
	ctx := context.Background()
	seen := make([]int32, N)

	var pg sync.WaitGroup
	pg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(from int) {
			defer pg.Done()
			for i := from; i < from+perProducer; i++ {
				if err := b.Put(ctx, i); err != nil {
					t.Errorf("put: %v", err)
					return
				}
				if n := b.Len(); n < 0 || n > b.Cap() {
					t.Errorf("Len %d out of range", n)
				}
			}
		}(p * perProducer)
	}

	var cg sync.WaitGroup
	cg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func(c int) {
			defer cg.Done()
			for i := c; i < N; i += consumers {
				v, err := b.Get(ctx)
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				atomic.AddInt32(&seen[v], 1)
			}
		}(c)
	}

	pg.Wait()
	cg.Wait()
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("value %d seen %d times; want 1", i, n)
		}
	}
}
