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
	"log"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/interrupt"
	"github.com/mq-soft-tech/comp2000-threadsafety/logwriter"
	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// interruptCmd represents the interrupt command
var interruptCmd = &cobra.Command{
	Use:   "interrupt",
	Short: "A countdown which starts over whenever it is interrupted",
	Long: `A countdown which starts over whenever it is interrupted

One goroutine counts down to zero, one tick at a time. Another interrupts it
at random intervals, and each interrupt sends the count back to the start.
The countdown finishes once it gets through a whole run uninterrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		runInterrupt()
	},
}

func init() {
	interruptCmd.Flags().Int("start", interrupt.DefaultStart, "value to count down from")
	interruptCmd.Flags().Duration("tick", 50*time.Millisecond, "pause between counts")
	interruptCmd.Flags().Duration("max-interval", time.Second, "longest gap between interrupts")
	bindFlags("interrupt", interruptCmd.Flags(), "start", "tick", "max-interval")

	RootCmd.AddCommand(interruptCmd)
}

func runInterrupt() {
	l := openLog()
	defer l.Cleanup()

	ctx, cancel := runContext(0)
	defer cancel()

	c := interrupt.NewCountdown(viper.GetInt("interrupt.start"), viper.GetDuration("interrupt.tick"), l.Logger("counter"))
	done := make(chan struct{})
	i := &interrupt.Interrupter{
		Target: c.Flag,
		Every:  pause.Upto(viper.GetDuration("interrupt.max-interval")),
		Stop:   done,
	}
	go i.Run(ctx)

	err := c.Run(ctx)
	close(done)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	if err != nil {
		log.Println(logwriter.Warn("stopped at"), c.Count(), "after", c.Restarts(), "restarts")
		return
	}
	log.Println(logwriter.Good("countdown finished"), "after", c.Restarts(), "restarts and", i.Sent(), "interrupts")
}
