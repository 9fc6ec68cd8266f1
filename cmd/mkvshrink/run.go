package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/backmassage/mkvshrink/internal/check"
	"github.com/backmassage/mkvshrink/internal/config"
	"github.com/backmassage/mkvshrink/internal/display"
	"github.com/backmassage/mkvshrink/internal/ffmpeg"
	"github.com/backmassage/mkvshrink/internal/logging"
	"github.com/backmassage/mkvshrink/internal/pipeline"
	"github.com/backmassage/mkvshrink/internal/term"
)

// runShrink performs one batch run. Setup problems (paths, lock, ffmpeg)
// are returned and end the process with status 1. Once the pipeline has
// started, an unexpected failure is logged and reported but the command
// still succeeds; per-file failures are only reflected in the skip log.
func runShrink(cmd *cobra.Command, cfg *config.Config) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(cmd.OutOrStdout())

	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Source directory not found: %s", cfg.SourceDir)
		return err
	}
	if info, err := os.Stat(sourceAbs); err != nil || !info.IsDir() {
		log.Error("Source is not a directory: %s", cfg.SourceDir)
		return fmt.Errorf("source %s is not a directory", cfg.SourceDir)
	}
	outputAbs, err := resolveOutput(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return err
	}
	if err := cfg.ValidatePaths(sourceAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.SourceDir)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := check.CheckDeps(ctx, cfg.FFmpegBinary); err != nil {
		log.Error("%v", err)
		return err
	}

	// Nothing has been created on disk (besides the run log) up to here.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return err
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		log.Error("Another mkvshrink run is using %s", cfg.OutputDir)
		return fmt.Errorf("output directory %s is locked by another run", cfg.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("Could not release lock %s: %v", cfg.LockPath(), err)
		}
	}()

	log.Info("=== mkvshrink v%s (%s) ===", version, commit)
	log.Info("Source: %s", cfg.SourceDir)
	log.Info("Output: %s", cfg.OutputDir)
	log.Info("Log:    %s", cfg.LogFile)
	log.Debug("Run ID: %s", log.RunID())
	if cfg.DryRun {
		log.Warn("DRY RUN: nothing will be transcoded or replaced")
	}

	confirmer := newConfirmer(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	tc := ffmpeg.NewTranscoder(cfg.FFmpegBinary, nil)
	driver := pipeline.NewDriver(cfg, log, confirmer, tc)

	stats, err := driver.Run(ctx)
	if err != nil {
		log.Error("Run failed: %v", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return nil
	}
	if ctx.Err() != nil {
		log.Warn("Interrupted after %d file(s); remaining files were not offered", stats.Found)
	}
	return nil
}

func newConfirmer(cfg *config.Config, in io.Reader, out io.Writer, log *logging.Logger) pipeline.Confirmer {
	if cfg.AutoConfirm {
		return pipeline.AutoConfirm{}
	}
	if f, ok := in.(*os.File); ok && !term.IsTerminal(f) {
		log.Warn("Standard input is not a terminal; answers are read from it line by line")
	}
	return pipeline.NewConsoleConfirmer(in, out)
}

// resolveOutput returns the absolute, symlink-resolved form of an output
// directory that may not exist yet: the nearest existing ancestor is resolved
// and the missing components are appended to it.
func resolveOutput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var missing []string
	for dir := abs; ; dir = filepath.Dir(dir) {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || filepath.Dir(dir) == dir {
			return "", err
		}
		missing = append(missing, filepath.Base(dir))
	}
}

// absPath returns the absolute, symlink-resolved path so source and output
// hierarchies can be compared.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
