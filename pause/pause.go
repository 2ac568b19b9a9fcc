// Package pause generates the random pauses used by the demonstrations to
// spread thread interleavings out to human timescales.
package pause // "github.com/mq-soft-tech/comp2000-threadsafety/pause"

import (
	"context"
	"time"

	"github.com/valyala/fastrand"
)

// Range is a closed-open interval of pause lengths [Min, Max).
// A Range with Max <= Min always yields Min.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Upto returns the range [0, max).
func Upto(max time.Duration) Range {
	return Range{Max: max}
}

// Fixed returns a range which always yields d.
func Fixed(d time.Duration) Range {
	return Range{Min: d, Max: d}
}

// Between returns the range [min, max).
func Between(min, max time.Duration) Range {
	return Range{Min: min, Max: max}
}

// Next draws a pause length from the range.
//
// Resolution is one microsecond; spans too large for a uint32 count of
// microseconds are clamped.
func (r Range) Next() time.Duration {
	span := r.Max - r.Min
	if span < time.Microsecond {
		return r.Min
	}
	n := span / time.Microsecond
	if n > 1<<32-1 {
		n = 1<<32 - 1
	}
	return r.Min + time.Duration(fastrand.Uint32n(uint32(n)))*time.Microsecond
}

func (r Range) String() string {
	if r.Max <= r.Min {
		return r.Min.String()
	}
	return "[" + r.Min.String() + ", " + r.Max.String() + ")"
}

// Sleep pauses for d or until ctx is done, whichever is first.
// It returns ctx.Err() if the pause was cut short.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
