package usecase

import "time"

// Pacer decides when the i-th download starts, relative to the start of the run
type Pacer interface {
	Delay(i int) time.Duration
}

// LinearStagger starts download i after i × Interval
type LinearStagger struct {
	Interval time.Duration
}

// Delay returns i × Interval. Negative values are treated as zero.
func (p LinearStagger) Delay(i int) time.Duration {
	if i <= 0 || p.Interval <= 0 {
		return 0
	}
	return time.Duration(i) * p.Interval
}
