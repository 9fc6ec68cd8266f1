package pipeline

import (
	"fmt"
	"os"
)

// SkipLog is the per-run record of candidates that were declined or failed:
// one path per line, truncated when opened, written through on every
// Record so an aborted run still leaves an accurate file.
type SkipLog struct {
	path string
	f    *os.File
	seen map[string]bool
}

// OpenSkipLog creates or truncates the skip log at path.
func OpenSkipLog(path string) (*SkipLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open skip log: %w", err)
	}
	return &SkipLog{path: path, f: f, seen: make(map[string]bool)}, nil
}

// Path returns the file backing the log.
func (s *SkipLog) Path() string { return s.path }

// Len returns the number of distinct paths recorded so far.
func (s *SkipLog) Len() int { return len(s.seen) }

// Record appends candidatePath unless it was already recorded this run.
func (s *SkipLog) Record(candidatePath string) error {
	if s.seen[candidatePath] {
		return nil
	}
	if _, err := fmt.Fprintln(s.f, candidatePath); err != nil {
		return fmt.Errorf("write skip log: %w", err)
	}
	s.seen[candidatePath] = true
	return nil
}

// Close closes the underlying file.
func (s *SkipLog) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
