package simlog

import (
	"fmt"
	"math"
)

// Reduction selects how events are folded into a bucket.
type Reduction string

const (
	// ReductionCumulative carries each bucket's total into the next (running sum).
	ReductionCumulative Reduction = "cumulative"
	// ReductionSum sums the deltas inside each bucket only.
	ReductionSum Reduction = "sum"
	// ReductionCount counts the events inside each bucket.
	ReductionCount Reduction = "count"
)

var validReductions = map[Reduction]bool{
	ReductionCumulative: true,
	ReductionSum:        true,
	ReductionCount:      true,
	"":                  true, // empty defaults to cumulative
}

// IsValidReduction returns true if the given string names a reduction.
func IsValidReduction(r string) bool {
	return validReductions[Reduction(r)]
}

// Bucket is one fixed-width window [Floor, Floor+width) and its folded value.
type Bucket struct {
	Floor int64
	Value int64
}

// BucketConfig parameterizes Aggregate.
type BucketConfig struct {
	Width       int64
	StartOffset int64
	Reduction   Reduction
}

// FilterFrom returns the events with Tick >= startOffset, keeping order.
func FilterFrom(events []TrafficEvent, startOffset int64) []TrafficEvent {
	out := make([]TrafficEvent, 0, len(events))
	for _, ev := range events {
		if ev.Tick >= startOffset {
			out = append(out, ev)
		}
	}
	return out
}

// Aggregate folds time-ordered events into buckets of cfg.Width ticks starting
// at cfg.StartOffset. Bucket i always has Floor = StartOffset + i*Width; windows
// without events are still emitted. The last open bucket is always flushed, so
// the result is never empty.
//
// With ReductionCumulative bucket i holds the total of every delta up to its
// upper edge, not just the deltas inside it. Events before StartOffset are
// ignored; an event earlier than its predecessor fails with ErrUnorderedEvents.
// A bucket whose upper edge does not fit in an int64 fails with ErrBucketOverflow.
func Aggregate(events []TrafficEvent, cfg BucketConfig) ([]Bucket, error) {
	if cfg.Width <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketWidth, cfg.Width)
	}
	reduction := cfg.Reduction
	if reduction == "" {
		reduction = ReductionCumulative
	}
	if !validReductions[reduction] {
		return nil, fmt.Errorf("unknown reduction %q", cfg.Reduction)
	}

	buckets := make([]Bucket, 0)
	cur := Bucket{Floor: cfg.StartOffset}
	last := cfg.StartOffset
	for i, ev := range events {
		if ev.Tick < cfg.StartOffset {
			continue
		}
		if ev.Tick < last {
			return nil, fmt.Errorf("%w: event %d at tick %d follows tick %d", ErrUnorderedEvents, i, ev.Tick, last)
		}
		last = ev.Tick

		for {
			if cur.Floor > math.MaxInt64-cfg.Width {
				return nil, fmt.Errorf("%w: bucket at %d with width %d", ErrBucketOverflow, cur.Floor, cfg.Width)
			}
			if ev.Tick < cur.Floor+cfg.Width {
				break
			}
			buckets = append(buckets, cur)
			next := Bucket{Floor: cur.Floor + cfg.Width}
			if reduction == ReductionCumulative {
				next.Value = cur.Value
			}
			cur = next
		}

		if reduction == ReductionCount {
			cur.Value++
		} else {
			cur.Value += ev.Delta
		}
	}
	return append(buckets, cur), nil
}

// BucketSeries converts buckets to a series whose x is the bucket floor
// relative to startOffset, so the first bucket sits at x = 0.
func BucketSeries(name string, buckets []Bucket, startOffset int64) Series {
	s := NewSeries(name)
	for _, b := range buckets {
		s.Append(float64(b.Floor-startOffset), float64(b.Value))
	}
	return s
}
