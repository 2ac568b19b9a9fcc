package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mq-soft-tech/comp2000-threadsafety/philosophy"
	"github.com/mq-soft-tech/comp2000-threadsafety/prodcons"
	"github.com/spf13/viper"
)

func TestFlagDefaultsPerCommand(t *testing.T) {
	if got := viper.GetInt("dinner.size"); got != philosophy.DefaultSize {
		t.Errorf("dinner.size: expecting %d but got %d", philosophy.DefaultSize, got)
	}
	if got := viper.GetInt("prodcons.capacity"); got != prodcons.DefaultCapacity {
		t.Errorf("prodcons.capacity: expecting %d but got %d", prodcons.DefaultCapacity, got)
	}
	if got := viper.GetDuration("dinner.poll"); got != time.Second {
		t.Errorf("dinner.poll: expecting 1s but got %s", got)
	}
	// Both commands have a --duration flag; each keeps its own.
	if err := consistentCmd.Flags().Set("duration", "3s"); err != nil {
		t.Fatal(err)
	}
	defer consistentCmd.Flags().Set("duration", "0s")
	if got := viper.GetDuration("consistent.duration"); got != 3*time.Second {
		t.Errorf("consistent.duration: expecting 3s but got %s", got)
	}
	if got := viper.GetDuration("dinner.duration"); got != 0 {
		t.Errorf("dinner.duration: expecting 0 but got %s", got)
	}
}

func TestRunContextTimeout(t *testing.T) {
	ctx, cancel := runContext(10 * time.Millisecond)
	defer cancel()
	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.Errorf("expecting DeadlineExceeded but got %v", ctx.Err())
		}
	case <-time.After(time.Second):
		t.Fatalf("context did not expire")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"consistent", "prodcons", "gate", "interrupt", "dinner", "cfsms", "migo"}
	for _, name := range want {
		c, _, err := RootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestExportLogGoesToStderr(t *testing.T) {
	l := openExportLog()
	defer l.Cleanup()
	if l.Writer != os.Stderr {
		t.Errorf("export commands should log to stderr when --log is not given, got %T", l.Writer)
	}
}

func TestLicenseHeader(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatal(err)
		}
		first := strings.SplitN(string(b), "\n", 2)[0]
		if first != "// Copyright © 2026 The comp2000-threadsafety Authors" {
			t.Errorf("%s: unexpected copyright line %q", f, first)
		}
	}
}
