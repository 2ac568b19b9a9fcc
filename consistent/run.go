package consistent

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/pause"
	"github.com/valyala/fastrand"
)

// Config controls the updater and validator goroutines started by Run.
type Config struct {
	// UpdateEvery is the pause between updates. Defaults to 7ms.
	UpdateEvery time.Duration
	// CheckEvery is the pause between checks. Defaults to 11ms.
	CheckEvery time.Duration
	// MaxValue bounds the random values written. Defaults to 10000.
	MaxValue uint32
	// Logger receives one line per update and per check. Nil discards.
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.UpdateEvery <= 0 {
		c.UpdateEvery = 7 * time.Millisecond
	}
	if c.CheckEvery <= 0 {
		c.CheckEvery = 11 * time.Millisecond
	}
	if c.MaxValue == 0 {
		c.MaxValue = 10000
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Report tallies what the validator saw.
type Report struct {
	Updates      int
	Checks       int
	Inconsistent int
}

// Run starts one goroutine that updates s with random values and one that
// repeatedly checks it, until ctx is done.
func Run(ctx context.Context, s Store, cfg Config) Report {
	cfg = cfg.withDefaults()

	var (
		wg     sync.WaitGroup
		report Report
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			v := int64(fastrand.Uint32n(cfg.MaxValue))
			cfg.Logger.Printf("Setting value to: %d", v)
			s.SetValues(v)
			report.Updates++
			if pause.Sleep(ctx, cfg.UpdateEvery) != nil {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			report.Checks++
			if s.IsConsistent() {
				cfg.Logger.Printf("State is currently consistent.")
			} else {
				report.Inconsistent++
				cfg.Logger.Printf("State is currently inconsistent!!!")
			}
			if pause.Sleep(ctx, cfg.CheckEvery) != nil {
				return
			}
		}
	}()
	wg.Wait()
	return report
}
