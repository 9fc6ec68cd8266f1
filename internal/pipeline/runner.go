package pipeline

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/backmassage/mkvshrink/internal/config"
	"github.com/backmassage/mkvshrink/internal/display"
	"github.com/backmassage/mkvshrink/internal/ffmpeg"
	"github.com/backmassage/mkvshrink/internal/logging"
)

// State is where a candidate is in the per-file state machine.
type State int

const (
	StateDiscovered State = iota
	StateSkipped
	StateTranscoding
	StateCommitted
	StateFailed
	StateInfoError // Re-stat failed; dropped before CONFIRM.
	StateListed    // Dry run; nothing attempted.
)

var stateNames = map[State]string{
	StateDiscovered:  "DISCOVERED",
	StateSkipped:     "SKIPPED",
	StateTranscoding: "TRANSCODING",
	StateCommitted:   "COMMITTED",
	StateFailed:      "FAILED",
	StateInfoError:   "INFO_ERROR",
	StateListed:      "LISTED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Transcoder re-encodes one file into outputDir.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputDir string) ffmpeg.Outcome
}

// Driver runs the pipeline: it pulls candidates one at a time and resolves
// each to a terminal state before looking at the next.
type Driver struct {
	Config     *config.Config
	Log        *logging.Logger
	Scanner    *Scanner
	Confirmer  Confirmer
	Transcoder Transcoder

	stat func(string) (os.FileInfo, error)
}

// NewDriver wires a Driver from cfg. The confirmer decides the CONFIRM step;
// pass [AutoConfirm] to skip it.
func NewDriver(cfg *config.Config, log *logging.Logger, confirmer Confirmer, tc Transcoder) *Driver {
	return &Driver{
		Config:     cfg,
		Log:        log,
		Scanner:    NewScanner(cfg, log),
		Confirmer:  confirmer,
		Transcoder: tc,
		stat:       os.Stat,
	}
}

// Run processes every candidate and returns the run's stats. Per-candidate
// problems never stop the run; the returned error reports an unexpected
// failure (output directory or skip log unusable, or a panic) that ended it
// early. Cancelling ctx stops the run after the current candidate; a
// candidate interrupted at the prompt is left untouched and unrecorded.
func (d *Driver) Run(ctx context.Context) (stats RunStats, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
		stats.Elapsed = time.Since(start)
	}()

	cfg := d.Config
	d.Log.Info("Script started.")
	d.Log.Info("Scanning %s for *%s files larger than %d GB", cfg.SourceDir, cfg.Extension, cfg.SizeLimitGB)

	var rec *Reconciler
	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return stats, fmt.Errorf("create output directory: %w", err)
		}
		skipLog, err := OpenSkipLog(cfg.SkipLogPath())
		if err != nil {
			return stats, err
		}
		defer skipLog.Close()
		d.Log.Info("Skip log: %s", skipLog.Path())
		rec = NewReconciler(skipLog, d.Log)
	}

	for c := range d.Scanner.Candidates() {
		if ctx.Err() != nil {
			d.Log.Warn("Interrupted, stopping before %s", c.Path)
			break
		}
		stats.Found++

		st, err := d.process(ctx, c, rec)
		stats.count(st)
		if st == StateCommitted {
			stats.BytesBefore += c.Size
			if info, statErr := d.stat(c.Path); statErr == nil {
				stats.BytesAfter += info.Size()
			}
		}
		if err != nil {
			stats.Elapsed = time.Since(start)
			d.logSummary(&stats)
			return stats, err
		}
		if ctx.Err() != nil {
			if st == StateDiscovered {
				d.Log.Warn("Interrupted, %s was not processed", c.Path)
			} else {
				d.Log.Warn("Interrupted, stopping after %s", c.Path)
			}
			break
		}
	}

	stats.Elapsed = time.Since(start)
	d.logSummary(&stats)
	d.Log.Info("Script finished.")
	return stats, nil
}

// process takes one candidate from DISCOVERED to a terminal state.
func (d *Driver) process(ctx context.Context, c Candidate, rec *Reconciler) (State, error) {
	info, err := d.stat(c.Path)
	if err != nil {
		d.Log.Warn("Skipping file due to error retrieving info: %s (%v)", c.Path, err)
		return StateInfoError, nil
	}
	c.Size, c.ModTime = info.Size(), info.ModTime()

	d.Log.Info("Found file: %s (Size: %s, Last Modified: %s)",
		c.Path, display.FormatGB(c.Size), c.ModTime.Format(logging.TimeFormat))

	if d.Config.DryRun {
		d.Log.Success("[DRY] Would transcode: %s", c.Path)
		return StateListed, nil
	}

	approved := d.Confirmer.Confirm(ctx, c)
	if ctx.Err() != nil {
		// Interrupted at the prompt: neither declined nor attempted.
		return StateDiscovered, nil
	}
	if !approved {
		d.Log.Info("File skipped: %s", c.Path)
		return StateSkipped, rec.SkipLog.Record(c.Path)
	}

	d.Log.Info("Processing file: %s", c.Path)
	d.Log.Debug("%s -> %s", c.Path, StateTranscoding)
	start := time.Now()
	outcome := d.Transcoder.Transcode(ctx, c.Path, d.Config.OutputDir)
	d.Log.Debug("ffmpeg finished in %s (exit %d)", time.Since(start).Round(time.Second), outcome.ExitCode)

	return rec.Reconcile(c, outcome)
}

func (d *Driver) logSummary(stats *RunStats) {
	d.Log.Info("==============================")
	rows := [][]string{
		{"Found", strconv.Itoa(stats.Found)},
		{"Committed", strconv.Itoa(stats.Committed)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Failed", strconv.Itoa(stats.Failed)},
	}
	if stats.InfoErrors > 0 {
		rows = append(rows, []string{"Unreadable", strconv.Itoa(stats.InfoErrors)})
	}
	if d.Config.DryRun {
		rows = append(rows, []string{"Listed (dry run)", strconv.Itoa(stats.Listed)})
	}
	for _, line := range display.RenderTable([]string{"Outcome", "Files"}, rows) {
		d.Log.Info("%s", line)
	}
	d.Log.Info("Elapsed: %s", stats.Elapsed.Round(time.Second))

	if stats.Committed == 0 {
		return
	}
	saved := stats.SpaceSaved()
	if saved >= 0 {
		d.Log.Success("Space reclaimed: %s (%s -> %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.BytesBefore),
			display.FormatBytes(stats.BytesAfter))
	} else {
		d.Log.Warn("Space reclaimed: %s (replacements are larger)", display.FormatBytesWithSign(saved))
	}
}
