package philosophy

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

func philosopherNode(id int) string { return fmt.Sprintf("P%d", id) }
func chopstickNode(id int) string   { return fmt.Sprintf("C%d", id) }

// WaitForGraph renders seats as a Graphviz digraph. A solid edge from a
// chopstick to a philosopher means the philosopher holds it; a dashed edge
// from a philosopher to a chopstick means the philosopher is waiting for
// it. A deadlocked table shows up as a cycle through every node.
func WaitForGraph(seats []Seat) string {
	g := gographviz.NewEscape()
	g.SetDir(true)
	g.SetName("dinner")

	added := make(map[int]bool)
	addChopstick := func(id int) {
		if added[id] {
			return
		}
		added[id] = true
		g.AddNode(g.Name, chopstickNode(id), map[string]string{
			"label": fmt.Sprintf("Chopstick %d", id),
			"shape": "box",
		})
	}

	for _, s := range seats {
		attrs := map[string]string{
			"label": fmt.Sprintf("Philosopher %d\\n%s", s.Philosopher, s.Phase),
		}
		switch s.Phase {
		case Eating:
			attrs["color"] = "green"
		case WaitingLeft, WaitingRight:
			attrs["color"] = "red"
		}
		g.AddNode(g.Name, philosopherNode(s.Philosopher), attrs)
		addChopstick(s.Left)
		addChopstick(s.Right)

		if s.HoldingLeft {
			g.AddEdge(chopstickNode(s.Left), philosopherNode(s.Philosopher), true, nil)
		}
		if s.HoldingRight {
			g.AddEdge(chopstickNode(s.Right), philosopherNode(s.Philosopher), true, nil)
		}
		waits := -1
		switch s.Phase {
		case WaitingLeft:
			waits = s.Left
		case WaitingRight:
			waits = s.Right
		}
		if waits >= 0 {
			g.AddEdge(philosopherNode(s.Philosopher), chopstickNode(waits), true, map[string]string{
				"style": "dashed",
			})
		}
	}
	return g.String()
}

// WaitCycle follows waits-for and held-by links from each seat and returns
// the philosophers on the first cycle found, or nil. Seats taken at
// different instants can show a cycle that never existed, so treat the
// result as a hint.
func WaitCycle(seats []Seat) []int {
	holder := make(map[int]int) // chopstick -> philosopher
	for _, s := range seats {
		if s.HoldingLeft {
			holder[s.Left] = s.Philosopher
		}
		if s.HoldingRight {
			holder[s.Right] = s.Philosopher
		}
	}
	waitsOn := make(map[int]int) // philosopher -> philosopher
	for _, s := range seats {
		var stick int
		switch s.Phase {
		case WaitingLeft:
			stick = s.Left
		case WaitingRight:
			stick = s.Right
		default:
			continue
		}
		if h, ok := holder[stick]; ok && h != s.Philosopher {
			waitsOn[s.Philosopher] = h
		}
	}

	for _, s := range seats {
		pos := make(map[int]int)
		var path []int
		for p, ok := s.Philosopher, true; ok; p, ok = waitsOn[p] {
			if i, seen := pos[p]; seen {
				return path[i:]
			}
			pos[p] = len(path)
			path = append(path, p)
		}
	}
	return nil
}
