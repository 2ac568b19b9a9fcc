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

	"github.com/mq-soft-tech/comp2000-threadsafety/philosophy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cfsmsCmd represents the cfsms command
var cfsmsCmd = &cobra.Command{
	Use:   "cfsms",
	Short: "Export the dining philosophers as CFSMs",
	Long: `Export the dining philosophers as CFSMs

Writes the fixed-order protocol as a system of communicating finite state
machines, one per chopstick and one per philosopher, for use with CFSM
analysis tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		exportCFSMs()
	},
}

func init() {
	cfsmsCmd.Flags().Int("size", philosophy.DefaultSize, "number of philosophers")
	cfsmsCmd.Flags().String("output", "", "output file (default is stdout)")
	bindFlags("cfsms", cfsmsCmd.Flags(), "size", "output")

	RootCmd.AddCommand(cfsmsCmd)
}

func exportCFSMs() {
	l := openExportLog()
	defer l.Cleanup()

	sys, err := philosophy.ProtocolCFSMs(viper.GetInt("cfsms.size"))
	if err != nil {
		log.Fatal(err)
	}
	l.Logger("cfsms").Printf("%d machines", len(sys.CFSMs))
	writeOutput(viper.GetString("cfsms.output"), sys.String())
}

// writeOutput writes s to the named file, or to stdout if path is empty.
func writeOutput(path, s string) {
	if path == "" {
		os.Stdout.WriteString(s)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(s); err != nil {
		log.Fatal(err)
	}
}
