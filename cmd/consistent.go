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
	"log"
	"os"

	"github.com/mq-soft-tech/comp2000-threadsafety/consistent"
	"github.com/mq-soft-tech/comp2000-threadsafety/logwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// consistentCmd represents the consistent command
var consistentCmd = &cobra.Command{
	Use:   "consistent",
	Short: "Check a two-field invariant while another goroutine updates it",
	Long: `Check a two-field invariant while another goroutine updates it

One goroutine keeps setting value and twice = 2*value, pausing between the
two writes. Another keeps checking that twice == 2*value. With --unguarded
the checker sees the pair half updated.`,
	Run: func(cmd *cobra.Command, args []string) {
		runConsistent()
	},
}

func init() {
	consistentCmd.Flags().Bool("unguarded", false, "update and check without a lock")
	consistentCmd.Flags().Duration("duration", 0, "stop after this long (default: until interrupted)")
	bindFlags("consistent", consistentCmd.Flags(), "unguarded", "duration")

	RootCmd.AddCommand(consistentCmd)
}

func runConsistent() {
	l := openLog()
	defer l.Cleanup()
	logger := l.Logger("consistent")

	var store consistent.Store = &consistent.Guarded{Pause: consistent.DefaultPause}
	if viper.GetBool("consistent.unguarded") {
		store = &consistent.Unguarded{Pause: consistent.DefaultPause}
	}

	ctx, cancel := runContext(viper.GetDuration("consistent.duration"))
	defer cancel()
	report := consistent.Run(ctx, store, consistent.Config{Logger: logger})

	log.Printf("%d updates, %d checks", report.Updates, report.Checks)
	if report.Inconsistent > 0 {
		log.Println(logwriter.Bad("inconsistent state seen"), report.Inconsistent, "times")
		l.Cleanup()
		os.Exit(1)
	}
	log.Println(logwriter.Good("state was always consistent"))
}
