package philosophy_test

import (
	"fmt"

	"github.com/mq-soft-tech/comp2000-threadsafety/philosophy"
)

func ExampleNewParty() {
	p, err := philosophy.NewParty(philosophy.Config{Size: 3})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range p.Snapshot() {
		fmt.Printf("Philosopher %d sits between Chopstick %d and Chopstick %d\n", s.Philosopher, s.Left, s.Right)
	}
	// Output:
	// Philosopher 0 sits between Chopstick 0 and Chopstick 1
	// Philosopher 1 sits between Chopstick 1 and Chopstick 2
	// Philosopher 2 sits between Chopstick 2 and Chopstick 0
}
