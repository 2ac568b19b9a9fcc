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
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/logwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile   string // Path to config file
	logFile   string // Path to log file
	noLogging bool   // Turn off logging
	noColour  bool   // Turn of colour output
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "threadsafety",
	Short: "Demonstrations of thread safety and deadlock",
	Long: `threadsafety runs small concurrent programs that show what goes wrong
without synchronisation, and how monitors, gates and interrupts put it right.

Use "threadsafety [command] --help" for the options of each demonstration.`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.threadsafety.yaml)")
	RootCmd.PersistentFlags().StringVar(&logFile, "log", "", "path to log file (default is stdout)")
	RootCmd.PersistentFlags().BoolVar(&noLogging, "no-logging", false, "disable logging")
	RootCmd.PersistentFlags().BoolVar(&noColour, "no-colour", false, "disable colour output")
	bindFlags("", RootCmd.PersistentFlags(), "log", "no-logging", "no-colour")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName(".threadsafety") // name of config file (without extension)
	viper.AddConfigPath("$HOME")         // adding home directory as first search path
	viper.SetEnvPrefix("threadsafety")   // THREADSAFETY_DINNER_SIZE and so on
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags makes each named flag readable through viper as section.name,
// so that the same flag name in two commands does not collide.
func bindFlags(section string, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		key := name
		if section != "" {
			key = section + "." + name
		}
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Fatal(err)
		}
	}
}

// openLog creates the log writer selected by the persistent flags. Call
// Cleanup on the result before exiting.
func openLog() *logwriter.Writer {
	l := logwriter.NewFile(viper.GetString("log"), !viper.GetBool("no-logging"), !viper.GetBool("no-colour"))
	if err := l.Create(); err != nil {
		log.Fatal(err)
	}
	return l
}

// openExportLog is openLog for commands whose stdout is their output: the
// log goes to stderr unless --log names a file.
func openExportLog() *logwriter.Writer {
	path := viper.GetString("log")
	l := logwriter.NewFile(path, !viper.GetBool("no-logging"), !viper.GetBool("no-colour"))
	if path == "" {
		l = logwriter.New(os.Stderr, !viper.GetBool("no-logging"), !viper.GetBool("no-colour"))
	}
	if err := l.Create(); err != nil {
		log.Fatal(err)
	}
	return l
}

// runContext is cancelled on ^C, and after d if d is positive.
func runContext(d time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if d <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, func() {
		cancel()
		stop()
	}
}
