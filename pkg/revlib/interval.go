package revlib

import (
	"math"
	"time"
)

// hoursPerDay converts fractional days to a time.Duration.
const hoursPerDay = 24

// IntervalScheduler computes the next repetition interval and due time.
// The growth model is geometric: the first repetition seeds the configured
// initial interval, every later one multiplies the previous interval.
type IntervalScheduler struct {
	cfg Config
}

// NewIntervalScheduler creates a scheduler from a validated config.
func NewIntervalScheduler(cfg Config) IntervalScheduler {
	return IntervalScheduler{cfg: cfg}
}

// Next computes the interval, in days, for the repetition following prev.
// prev is nil on the first repetition. A non-positive result yields
// ErrInvalidInterval and the caller must leave the previous due time alone.
func (s IntervalScheduler) Next(prev *float64) (float64, error) {
	var ivl float64
	if prev == nil {
		ivl = s.cfg.InitialInterval
	} else {
		ivl = *prev * s.cfg.Multiplier
	}
	if s.cfg.RoundIntervals {
		ivl = math.Floor(ivl)
		if ivl < 1 {
			ivl = 1
		}
	}
	if ivl <= 0 || math.IsInf(ivl, 0) || math.IsNaN(ivl) {
		return 0, ErrInvalidInterval
	}
	return ivl, nil
}

// DueAfter returns now advanced by the given interval in days.
func (s IntervalScheduler) DueAfter(now time.Time, interval float64) time.Time {
	return now.Add(time.Duration(interval * hoursPerDay * float64(time.Hour)))
}
