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
	"fmt"
	"log"
	"sync"

	"github.com/mq-soft-tech/comp2000-threadsafety/logwriter"
	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
	"github.com/mq-soft-tech/comp2000-threadsafety/prodcons"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// prodconsCmd represents the prodcons command
var prodconsCmd = &cobra.Command{
	Use:   "prodcons",
	Short: "Producers and consumers sharing a bounded buffer",
	Long: `Producers and consumers sharing a bounded buffer

Producers put random values into a small buffer and consumers take them out,
each pausing a random time between steps. Producers wait while the buffer is
full and consumers while it is empty.`,
	Run: func(cmd *cobra.Command, args []string) {
		runProdcons()
	},
}

func init() {
	prodconsCmd.Flags().Int("capacity", prodcons.DefaultCapacity, "buffer capacity")
	prodconsCmd.Flags().Int("producers", 1, "number of producers")
	prodconsCmd.Flags().Int("consumers", 1, "number of consumers")
	prodconsCmd.Flags().Duration("max-pause", prodcons.DefaultMaxPause, "longest pause between steps")
	prodconsCmd.Flags().Duration("duration", 0, "stop after this long (default: until interrupted)")
	bindFlags("prodcons", prodconsCmd.Flags(), "capacity", "producers", "consumers", "max-pause", "duration")

	RootCmd.AddCommand(prodconsCmd)
}

func runProdcons() {
	capacity := viper.GetInt("prodcons.capacity")
	if capacity <= 0 {
		log.Fatalf("capacity must be positive, got %d", capacity)
	}
	l := openLog()
	defer l.Cleanup()

	buf := prodcons.New[int](capacity)
	every := pause.Upto(viper.GetDuration("prodcons.max-pause"))
	ctx, cancel := runContext(viper.GetDuration("prodcons.duration"))
	defer cancel()

	var (
		wg        sync.WaitGroup
		producers []*prodcons.Producer
		consumers []*prodcons.Consumer
	)
	errs := make(chan error, viper.GetInt("prodcons.producers")+viper.GetInt("prodcons.consumers"))
	for i := 0; i < viper.GetInt("prodcons.producers"); i++ {
		name := fmt.Sprintf("producer %d", i)
		producers = append(producers, prodcons.NewProducer(name, buf, every, l.Logger(name)))
	}
	for i := 0; i < viper.GetInt("prodcons.consumers"); i++ {
		name := fmt.Sprintf("consumer %d", i)
		consumers = append(consumers, prodcons.NewConsumer(name, buf, every, l.Logger(name)))
	}
	for _, p := range producers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx); err != nil {
				errs <- err
			}
		}()
	}
	for _, c := range consumers {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Run(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		log.Println(logwriter.Bad(err))
	}

	var produced, consumed int
	for _, p := range producers {
		produced += p.Produced()
	}
	for _, c := range consumers {
		consumed += c.Consumed()
	}
	log.Println(logwriter.Good(fmt.Sprintf("%d produced, %d consumed, %d left in buffer", produced, consumed, buf.Len())))
}
