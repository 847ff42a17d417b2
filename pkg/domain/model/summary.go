package model

import "time"

// Summary aggregates the results of one orchestration run
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Bytes     int64
	Duration  time.Duration
	Results   []DownloadResult // In the order of the gathered attachments
}

// NewSummary builds a summary from results
func NewSummary(results []DownloadResult, duration time.Duration) *Summary {
	s := &Summary{
		Total:    len(results),
		Duration: duration,
		Results:  results,
	}
	for _, r := range results {
		if r.Succeeded() {
			s.Succeeded++
			s.Bytes += r.Bytes
		} else {
			s.Failed++
		}
	}
	return s
}

// HasFailures reports whether at least one download failed
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// FailedResults returns the failed downloads only
func (s *Summary) FailedResults() []DownloadResult {
	var failed []DownloadResult
	for _, r := range s.Results {
		if !r.Succeeded() {
			failed = append(failed, r)
		}
	}
	return failed
}
