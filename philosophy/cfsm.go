package philosophy

import (
	"fmt"

	"github.com/nickng/cfsm"
)

// Messages exchanged between a philosopher and a chopstick.
const (
	msgLift  = "lift"
	msgGrant = "granted"
	msgDrop  = "drop"
)

// ProtocolCFSMs models a table of n fixed-order philosophers as
// communicating finite state machines. Machines 0..n-1 are the chopsticks
// and n..2n-1 the philosophers. A chopstick serves one lift at a time: it
// receives a lift, sends granted, and then waits for the matching drop.
func ProtocolCFSMs(n int) (*cfsm.System, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrPartySize, n)
	}
	sys := cfsm.NewSystem()
	sticks := make([]*cfsm.CFSM, n)
	for i := range sticks {
		sticks[i] = sys.NewMachine()
		sticks[i].Comment = fmt.Sprintf("Chopstick %d", i)
	}
	phils := make([]*cfsm.CFSM, n)
	for i := range phils {
		phils[i] = sys.NewMachine()
		phils[i].Comment = fmt.Sprintf("Philosopher %d", i)
	}
	for i := range phils {
		philosopherMachine(phils[i], sticks[i], sticks[(i+1)%n])
	}
	for i := range sticks {
		// Chopstick i is philosopher i's left and philosopher i-1's right.
		chopstickMachine(sticks[i], phils[i], phils[(i+n-1)%n])
	}
	return sys, nil
}

// philosopherMachine: lift left, lift right, drop right, drop left, repeat.
func philosopherMachine(m, left, right *cfsm.CFSM) {
	q0 := m.NewState()
	m.Start = q0
	q := q0
	steps := []struct {
		send bool
		peer *cfsm.CFSM
		msg  string
	}{
		{true, left, msgLift},
		{false, left, msgGrant},
		{true, right, msgLift},
		{false, right, msgGrant},
		{true, right, msgDrop},
		{true, left, msgDrop},
	}
	for i, step := range steps {
		next := q0
		if i < len(steps)-1 {
			next = m.NewState()
		}
		if step.send {
			tr := cfsm.NewSend(step.peer, step.msg)
			tr.SetNext(next)
			q.AddTransition(tr)
		} else {
			tr := cfsm.NewRecv(step.peer, step.msg)
			tr.SetNext(next)
			q.AddTransition(tr)
		}
		q = next
	}
}

// chopstickMachine offers the chopstick to either user from its idle state.
func chopstickMachine(m *cfsm.CFSM, users ...*cfsm.CFSM) {
	idle := m.NewState()
	m.Start = idle
	for _, u := range users {
		lifted := m.NewState()
		held := m.NewState()

		lift := cfsm.NewRecv(u, msgLift)
		lift.SetNext(lifted)
		idle.AddTransition(lift)

		grant := cfsm.NewSend(u, msgGrant)
		grant.SetNext(held)
		lifted.AddTransition(grant)

		drop := cfsm.NewRecv(u, msgDrop)
		drop.SetNext(idle)
		held.AddTransition(drop)
	}
}
