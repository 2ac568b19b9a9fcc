// Package logwriter sets up where the demonstrations log to and whether
// their output is coloured.
package logwriter

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Writer is a log destination and its configuration. After Create it is
// safe for concurrent use by any number of loggers.
type Writer struct {
	io.Writer

	LogFile       string
	EnableLogging bool
	EnableColour  bool
	Cleanup       func()

	mu sync.Mutex
}

// NewFile creates a writer logging to logfile, or to stdout if logfile is
// empty.
func NewFile(logfile string, enableLogging, enableColour bool) *Writer {
	return &Writer{
		LogFile:       logfile,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
	}
}

// New creates a writer logging to w.
func New(w io.Writer, enableLogging, enableColour bool) *Writer {
	return &Writer{
		Writer:        w,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
	}
}

// Create opens the destination. Call Cleanup when done to flush and close
// a log file. Disabling colour turns it off everywhere; enabling it leaves
// fatih/color's terminal detection in charge.
func (w *Writer) Create() error {
	if !w.EnableColour {
		color.NoColor = true
	}
	w.Cleanup = func() {}
	if !w.EnableLogging {
		w.Writer = io.Discard
		return nil
	}
	if w.Writer != nil {
		return nil
	}
	if w.LogFile == "" {
		w.Writer = os.Stdout
		return nil
	}

	f, err := os.Create(w.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	bufWriter := bufio.NewWriter(f)
	w.Writer = bufWriter
	w.Cleanup = func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if err := bufWriter.Flush(); err != nil {
			log.Printf("flush: %s", err)
		}
		if err := f.Close(); err != nil {
			log.Printf("close: %s", err)
		}
	}
	return nil
}

// Write serialises writes from concurrent loggers sharing w.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Writer.Write(p)
}

// Logger returns a logger writing to w, each line starting with a time
// stamp and prefix.
func (w *Writer) Logger(prefix string) *log.Logger {
	if prefix != "" {
		prefix = Note(prefix) + " "
	}
	return log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

// Good, Warn, Bad and Note colour a message for success, waiting or
// restarting, failure and labels respectively. They return s unchanged
// when colour is disabled.
var (
	Good = color.New(color.FgGreen).SprintFunc()
	Warn = color.New(color.FgYellow).SprintFunc()
	Bad  = color.New(color.FgRed, color.Bold).SprintFunc()
	Note = color.New(color.FgCyan).SprintFunc()
)
