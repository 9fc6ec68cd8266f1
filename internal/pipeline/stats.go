package pipeline

import "time"

// RunStats tracks aggregate counters and byte totals across a run.
type RunStats struct {
	Found      int // Candidates yielded by the scanner.
	Committed  int
	Skipped    int // Declined by the operator.
	Failed     int
	InfoErrors int // Candidates dropped because they could not be re-stat'ed.
	Listed     int // Dry-run candidates.

	// Byte totals cover committed files only.
	BytesBefore int64
	BytesAfter  int64

	Elapsed time.Duration
}

// SpaceSaved returns the aggregate byte difference between originals and
// their replacements. Positive means the replacements are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.BytesBefore - s.BytesAfter
}

func (s *RunStats) count(st State) {
	switch st {
	case StateCommitted:
		s.Committed++
	case StateSkipped:
		s.Skipped++
	case StateFailed:
		s.Failed++
	case StateInfoError:
		s.InfoErrors++
	case StateListed:
		s.Listed++
	}
}
