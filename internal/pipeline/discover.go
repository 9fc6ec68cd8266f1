package pipeline

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/mkvshrink/internal/config"
	"github.com/backmassage/mkvshrink/internal/logging"
)

// Candidate is a file selected by the scanner for possible processing.
type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Scanner finds regular files under Root whose name ends with Extension
// (case-sensitive, so "movie.MKV" does not match ".mkv") and whose size is
// strictly greater than Threshold bytes.
type Scanner struct {
	Root      string
	Extension string
	Threshold int64
	Log       *logging.Logger
}

// NewScanner returns a Scanner configured from cfg.
func NewScanner(cfg *config.Config, log *logging.Logger) *Scanner {
	return &Scanner{
		Root:      cfg.SourceDir,
		Extension: cfg.Extension,
		Threshold: cfg.ThresholdBytes(),
		Log:       log,
	}
}

// Candidates returns a lazy, single-use sequence of matching files in
// filepath.WalkDir (lexical) order. The tree is walked as the sequence is
// consumed; breaking out of the range loop stops the walk. Unreadable
// directories and files that cannot be stat'ed are logged and dropped.
func (s *Scanner) Candidates() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		_ = filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.Log.Warn("Cannot read %s: %v", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !s.matches(d.Name()) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				s.Log.Warn("Cannot stat %s: %v", path, err)
				return nil
			}
			if info.Size() <= s.Threshold {
				return nil
			}

			c := Candidate{Path: path, Size: info.Size(), ModTime: info.ModTime()}
			if !yield(c) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (s *Scanner) matches(name string) bool {
	return strings.HasSuffix(name, s.Extension)
}
