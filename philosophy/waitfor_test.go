package philosophy

import (
	"reflect"
	"strings"
	"testing"
)

// deadlockedSeats is a table of three where everybody holds the left
// chopstick and waits for the right.
func deadlockedSeats() []Seat {
	seats := make([]Seat, 3)
	for i := range seats {
		seats[i] = Seat{
			Philosopher: i,
			Phase:       WaitingRight,
			HoldingLeft: true,
			Left:        i,
			Right:       (i + 1) % 3,
		}
	}
	return seats
}

func TestWaitForGraph(t *testing.T) {
	dot := WaitForGraph(deadlockedSeats())
	for _, want := range []string{"digraph", "dinner", "P0", "P2", "C0", "C2", "C0->P0", "P0->C1", "dashed"} {
		if !strings.Contains(strings.ReplaceAll(dot, " ", ""), want) {
			t.Errorf("graph should contain %q:\n%s", want, dot)
		}
	}
	if strings.Contains(strings.ReplaceAll(dot, " ", ""), "C1->P0") {
		t.Errorf("P0 does not hold C1:\n%s", dot)
	}
}

func TestWaitCycle(t *testing.T) {
	if got := WaitCycle(deadlockedSeats()); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("deadlocked table: expecting cycle [0 1 2] but got %v", got)
	}

	seats := deadlockedSeats()
	seats[2].Phase = Eating
	seats[2].HoldingRight = true
	if got := WaitCycle(seats); got != nil {
		t.Errorf("an eating philosopher breaks the cycle, got %v", got)
	}

	if got := WaitCycle(nil); got != nil {
		t.Errorf("empty table: expecting no cycle but got %v", got)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Philosopher: 2, Kind: Lifted, Chopstick: 3}, "Philosopher 2 has lifted Chopstick 3."},
		{Event{Philosopher: 2, Kind: Released, Chopstick: 2}, "Philosopher 2 has put down Chopstick 2."},
		{Event{Philosopher: 0, Kind: Ate, Chopstick: -1}, "Philosopher 0 has eaten."},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("expecting %q but got %q", tt.want, got)
		}
	}
}
