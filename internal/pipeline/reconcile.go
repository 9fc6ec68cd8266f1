package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/backmassage/mkvshrink/internal/ffmpeg"
	"github.com/backmassage/mkvshrink/internal/logging"
)

// Reconciler settles the filesystem after a transcode attempt: commit
// (output replaces the original) or rollback (output removed, path recorded
// in the skip log).
type Reconciler struct {
	SkipLog *SkipLog
	Log     *logging.Logger

	rename func(oldpath, newpath string) error
	remove func(name string) error
}

// NewReconciler returns a Reconciler recording failures in skipLog.
func NewReconciler(skipLog *SkipLog, log *logging.Logger) *Reconciler {
	return &Reconciler{SkipLog: skipLog, Log: log, rename: os.Rename, remove: os.Remove}
}

// Reconcile commits a successful outcome or rolls back a failed one and
// returns the terminal state. A commit whose move fails is rolled back, so
// the original is either fully replaced or untouched. The returned error is
// only set when the skip log cannot be written.
func (r *Reconciler) Reconcile(c Candidate, o ffmpeg.Outcome) (State, error) {
	if o.Succeeded {
		r.Log.Success("Processing complete for: %s", c.Path)
		err := r.move(o.OutputPath, c.Path)
		if err == nil {
			r.Log.Info("Replaced original file: %s", c.Path)
			return StateCommitted, nil
		}
		r.Log.Error("Could not replace original file %s: %v", c.Path, err)
	} else {
		r.Log.Error("Error processing file: %s (%s)", c.Path, describeFailure(o))
	}
	return StateFailed, r.rollback(c, o)
}

// rollback removes any (partial) output and records the candidate.
func (r *Reconciler) rollback(c Candidate, o ffmpeg.Outcome) error {
	switch err := r.remove(o.OutputPath); {
	case err == nil:
		r.Log.Info("Removed failed output file: %s", o.OutputPath)
	case errors.Is(err, fs.ErrNotExist):
		// ffmpeg failed before creating it.
	default:
		r.Log.Error("Could not remove failed output file %s: %v", o.OutputPath, err)
	}
	return r.SkipLog.Record(c.Path)
}

// move renames src over dst. Across filesystems it copies src into a temp
// file next to dst, syncs it, renames it over dst and then removes src; dst
// is never left half-written.
func (r *Reconciler) move(src, dst string) error {
	err := r.rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	r.Log.Debug("Cross-device move, copying %s to %s", src, dst)
	if err := copyReplace(src, dst, r.rename); err != nil {
		return err
	}
	if err := r.remove(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.Log.Error("Original replaced but transcoded copy left behind, remove it by hand: %s (%v)", src, err)
	}
	return nil
}

func copyReplace(src, dst string, rename func(string, string) error) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replace original: %w", err)
	}
	return nil
}

func describeFailure(o ffmpeg.Outcome) string {
	if o.ExitCode > 0 {
		return fmt.Sprintf("ffmpeg exited with status %d", o.ExitCode)
	}
	if o.Err != nil {
		return o.Err.Error()
	}
	return "ffmpeg failed"
}
