// Copyright © 2026 The comp2000-threadsafety Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/logwriter"
	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
	"github.com/mq-soft-tech/comp2000-threadsafety/threadgate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// gateCmd represents the gate command
var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Goroutines held at a gate and released together",
	Long: `Goroutines held at a gate and released together

Waiters arrive at a closed gate at random times. Each round the gate is
opened and closed again straight away; everybody waiting when it opened goes
through, even though the gate is closed again before they wake up. With
--pulse the gate is pulsed instead, releasing only those already waiting.`,
	Run: func(cmd *cobra.Command, args []string) {
		runGate()
	},
}

func init() {
	gateCmd.Flags().Int("waiters", 4, "number of waiting goroutines")
	gateCmd.Flags().Bool("pulse", false, "use OpenThenClose instead of Open followed by Close")
	gateCmd.Flags().Int("rounds", 5, "number of times to open the gate")
	gateCmd.Flags().Duration("every", 500*time.Millisecond, "pause between rounds")
	bindFlags("gate", gateCmd.Flags(), "waiters", "pulse", "rounds", "every")

	RootCmd.AddCommand(gateCmd)
}

func runGate() {
	l := openLog()
	defer l.Cleanup()
	logger := l.Logger("gate")

	g := threadgate.New()
	ctx, cancel := runContext(0)
	defer cancel()
	waitersCtx, stopWaiters := context.WithCancel(ctx)

	var (
		wg     sync.WaitGroup
		passed atomic.Int64
	)
	arrive := pause.Upto(viper.GetDuration("gate.every"))
	for i := 0; i < viper.GetInt("gate.waiters"); i++ {
		w := l.Logger(fmt.Sprintf("waiter %d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if pause.Sleep(waitersCtx, arrive.Next()) != nil {
					return
				}
				w.Println(logwriter.Warn("waiting at the gate"))
				if err := g.Await(waitersCtx); err != nil {
					if !errors.Is(err, threadgate.ErrInterrupted) {
						w.Println(logwriter.Bad(err))
					}
					return
				}
				passed.Add(1)
				w.Println(logwriter.Good("through the gate"))
			}
		}()
	}

	for round := 1; round <= viper.GetInt("gate.rounds"); round++ {
		if pause.Sleep(ctx, viper.GetDuration("gate.every")) != nil {
			break
		}
		logger.Printf("Round %d: %d waiting", round, g.Waiting())
		if viper.GetBool("gate.pulse") {
			g.OpenThenClose()
		} else {
			g.Open()
			g.Close()
		}
	}
	stopWaiters()
	wg.Wait()
	log.Printf("%d passages through the gate in %d generations", passed.Load(), g.Generation())
}
