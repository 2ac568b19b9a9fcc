package philosophy

import (
	"fmt"

	"github.com/nickng/migo/v3"
	"github.com/nickng/migo/v3/migoutil"
)

// chanVar names a channel in a MiGo program.
type chanVar string

func (v chanVar) Name() string   { return string(v) }
func (v chanVar) String() string { return string(v) }

// ProtocolMiGo models a table of n fixed-order philosophers as a MiGo
// program. Each chopstick is a channel of capacity one: sending lifts it
// and receiving puts it down, so a philosopher blocks on a send while its
// neighbour holds the chopstick.
func ProtocolMiGo(n int) (*migo.Program, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrPartySize, n)
	}
	const philName = "main.philosopher"
	left, right := chanVar("left"), chanVar("right")

	prog := migo.NewProgram()

	mainFn := migo.NewFunction("main.main")
	sticks := make([]chanVar, n)
	for i := range sticks {
		sticks[i] = chanVar(fmt.Sprintf("c%d", i))
		mainFn.AddStmts(&migo.NewChanStatement{Name: sticks[i], Chan: sticks[i].String(), Size: 1})
	}
	for i := range sticks {
		spawn := &migo.SpawnStatement{Name: philName, Params: []*migo.Parameter{}}
		spawn.AddParams(&migo.Parameter{Caller: sticks[i], Callee: left})
		spawn.AddParams(&migo.Parameter{Caller: sticks[(i+1)%n], Callee: right})
		mainFn.AddStmts(spawn)
	}
	mainFn.HasComm = true
	prog.AddFunction(mainFn)

	phil := migo.NewFunction(philName)
	phil.AddParams(&migo.Parameter{Caller: left, Callee: left})
	phil.AddParams(&migo.Parameter{Caller: right, Callee: right})
	again := &migo.CallStatement{Name: philName, Params: []*migo.Parameter{}}
	again.AddParams(&migo.Parameter{Caller: left, Callee: left})
	again.AddParams(&migo.Parameter{Caller: right, Callee: right})
	phil.AddStmts(
		&migo.TauStatement{}, // think
		&migo.SendStatement{Chan: left.String()},
		&migo.SendStatement{Chan: right.String()},
		&migo.TauStatement{}, // eat
		&migo.RecvStatement{Chan: right.String()},
		&migo.RecvStatement{Chan: left.String()},
		again,
	)
	phil.HasComm = true
	prog.AddFunction(phil)

	migoutil.SimplifyProgram(prog)
	return prog, nil
}
