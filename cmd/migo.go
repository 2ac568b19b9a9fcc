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

	"github.com/mq-soft-tech/comp2000-threadsafety/philosophy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migoCmd represents the migo command
var migoCmd = &cobra.Command{
	Use:   "migo",
	Short: "Export the dining philosophers as MiGo types",
	Long: `Export the dining philosophers as MiGo types

Writes the fixed-order protocol as a MiGo program in which each chopstick is
a channel of capacity one, for use with MiGo verification tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		exportMigo()
	},
}

func init() {
	migoCmd.Flags().Int("size", philosophy.DefaultSize, "number of philosophers")
	migoCmd.Flags().String("output", "", "output migo file (default is stdout)")
	bindFlags("migo", migoCmd.Flags(), "size", "output")

	RootCmd.AddCommand(migoCmd)
}

func exportMigo() {
	l := openExportLog()
	defer l.Cleanup()

	prog, err := philosophy.ProtocolMiGo(viper.GetInt("migo.size"))
	if err != nil {
		log.Fatal(err)
	}
	l.Logger("migo").Printf("%d functions", len(prog.Funcs))
	writeOutput(viper.GetString("migo.output"), prog.String())
}
