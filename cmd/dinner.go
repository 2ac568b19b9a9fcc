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
	"os"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/logwriter"
	"github.com/mq-soft-tech/comp2000-threadsafety/philosophy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dinnerCmd represents the dinner command
var dinnerCmd = &cobra.Command{
	Use:   "dinner",
	Short: "The dining philosophers",
	Long: `The dining philosophers

Philosophers sit at a round table with a chopstick between each pair. Each
lifts the left chopstick, then the right, eats and puts both down. If they
all lift their left chopstick at once nobody can ever eat: the party is
deadlocked, and the command reports it and exits.

With --recoverable the philosophers can be interrupted. Every --reset-every
they are all told to put down what they hold and start again, which breaks
any deadlock.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDinner()
	},
}

func init() {
	dinnerCmd.Flags().Int("size", philosophy.DefaultSize, "number of philosophers")
	dinnerCmd.Flags().Bool("recoverable", false, "seat interruptible philosophers")
	dinnerCmd.Flags().Duration("poll", time.Second, "how often to look for a deadlock")
	dinnerCmd.Flags().Duration("reset-every", 2*time.Second, "how often to restart recoverable philosophers")
	dinnerCmd.Flags().String("dot", "", "write the wait-for graph to this file on deadlock")
	dinnerCmd.Flags().Duration("duration", 0, "stop after this long (default: until interrupted or deadlocked)")
	bindFlags("dinner", dinnerCmd.Flags(), "size", "recoverable", "poll", "reset-every", "dot", "duration")

	RootCmd.AddCommand(dinnerCmd)
}

func runDinner() {
	l := openLog()
	defer l.Cleanup()
	logger := l.Logger("dinner")

	variant := philosophy.FixedOrder
	if viper.GetBool("dinner.recoverable") {
		variant = philosophy.Recoverable
	}
	events := make(chan philosophy.Event, 64)
	party, err := philosophy.NewParty(philosophy.Config{
		Size:    viper.GetInt("dinner.size"),
		Variant: variant,
		Events:  events,
		Logger:  logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := runContext(viper.GetDuration("dinner.duration"))
	defer cancel()
	go logEvents(ctx, logger, events)
	party.Start(ctx)

	poll := viper.GetDuration("dinner.poll")
	if variant == philosophy.Recoverable {
		go party.ResetEvery(ctx, viper.GetDuration("dinner.reset-every"))
		go reportCycles(ctx, logger, party, poll)

		// Restarts break any deadlock, so there is nothing to watch for.
		<-ctx.Done()
		party.Wait()
		logMeals(party)
		return
	}

	err = party.Watch(ctx, poll)
	switch {
	case errors.Is(err, philosophy.ErrDeadlock):
		log.Println(logwriter.Bad(err))
		if path := viper.GetString("dinner.dot"); path != "" {
			writeWaitFor(path, party)
		}
		l.Cleanup()
		os.Exit(1)
	case err != nil && !errors.Is(err, ctx.Err()):
		log.Fatal(err)
	}

	logMeals(party)
}

func logMeals(party *philosophy.Party) {
	for _, s := range party.Snapshot() {
		log.Printf("Philosopher %d ate %d times", s.Philosopher, s.Meals)
	}
}

func logEvents(ctx context.Context, logger *log.Logger, events <-chan philosophy.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev.Kind {
			case philosophy.Lifted, philosophy.Ate:
				logger.Println(logwriter.Good(ev))
			case philosophy.Reset:
				logger.Println(logwriter.Warn(ev))
			default:
				logger.Println(ev)
			}
		}
	}
}

// reportCycles logs circular waits seen between restarts.
func reportCycles(ctx context.Context, logger *log.Logger, party *philosophy.Party, every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if cycle := philosophy.WaitCycle(party.Snapshot()); cycle != nil {
				logger.Println(logwriter.Warn(fmt.Sprintf("philosophers %v are waiting on each other", cycle)))
			}
		}
	}
}

// writeWaitFor gives philosophers still pausing with one chopstick a
// moment to reach for the other, so the graph shows the whole cycle.
func writeWaitFor(path string, party *philosophy.Party) {
	seats := party.Snapshot()
	for i := 0; i < 100 && philosophy.WaitCycle(seats) == nil; i++ {
		time.Sleep(10 * time.Millisecond)
		seats = party.Snapshot()
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(philosophy.WaitForGraph(seats)); err != nil {
		log.Fatal(err)
	}
	log.Println("Wait-for graph written to", path)
}
