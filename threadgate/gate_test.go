package threadgate

import (
	"context"
	"errors"
	"testing"
	"time"
)

// waitUntil polls cond until it holds or five seconds pass.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(time.Millisecond)
	}
}

// startWaiters starts n goroutines awaiting g. parked reports when all of
// them have recorded their arrival.
func startWaiters(g *Gate, n int) (released chan error, parked func() bool) {
	released = make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			released <- g.Await(context.Background())
		}()
	}
	return released, func() bool { return g.Waiting() == n }
}

func TestGateOpenReleasesWaiters(t *testing.T) {
	g := New()
	if g.IsOpen() {
		t.Fatal("Expecting new gate to be closed")
	}
	released, parked := startWaiters(g, 4)
	waitUntil(t, parked)
	time.Sleep(20 * time.Millisecond)
	select {
	case <-released:
		t.Fatal("Expecting waiters to block at a closed gate")
	default:
	}

	g.Open()
	for i := 0; i < 4; i++ {
		select {
		case err := <-released:
			if err != nil {
				t.Errorf("Await: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("waiter not released by Open")
		}
	}
	// An open gate lets new arrivals straight through.
	if err := g.Await(context.Background()); err != nil {
		t.Errorf("Await on open gate: %v", err)
	}
	if g.Generation() != 1 {
		t.Errorf("Expecting generation 1 but got %d", g.Generation())
	}
}

// Open immediately followed by Close must still release the waiters that
// arrived before the Open.
func TestGateOpenCloseNotMissed(t *testing.T) {
	g := New()
	released, parked := startWaiters(g, 3)
	waitUntil(t, parked)

	g.Open()
	g.Close()
	for i := 0; i < 3; i++ {
		select {
		case err := <-released:
			if err != nil {
				t.Errorf("Await: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("waiter missed an Open that was followed by Close")
		}
	}
}

func TestGateOpenThenClose(t *testing.T) {
	g := New()
	released, parked := startWaiters(g, 2)
	waitUntil(t, parked)

	g.OpenThenClose()
	if g.IsOpen() {
		t.Error("Expecting gate to be closed after OpenThenClose")
	}
	for i := 0; i < 2; i++ {
		select {
		case <-released:
		case <-time.After(5 * time.Second):
			t.Fatal("waiter not released by OpenThenClose")
		}
	}

	// A late arrival finds the gate shut.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := g.Await(ctx); !errors.Is(err, ErrInterrupted) {
		t.Errorf("Expecting late arrival to block until interrupted but got %v", err)
	}
}

func TestGateCloseIdempotent(t *testing.T) {
	g := New()
	g.Open()
	g.Close()
	g.Close()
	if g.IsOpen() {
		t.Error("Expecting gate to stay closed")
	}
	if g.Generation() != 1 {
		t.Errorf("Close must not advance the generation, got %d", g.Generation())
	}
}
