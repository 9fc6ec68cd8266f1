// Package check provides system diagnostics (the check subcommand) and the
// pre-run dependency validation (CheckDeps) for the ffmpeg binary.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when the transcoder is unusable.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found; install it or point --ffmpeg at the binary")
	ErrFfmpegUnusable = errors.New("ffmpeg found but -version failed")
)

// RequiredEncoders are the encoders the fixed transcode template uses.
var RequiredEncoders = []string{"libx264", "aac"}

// Logger is the subset of the run logger RunCheck writes to.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// CheckDeps is the pre-run validation: binary must resolve on PATH (or as a
// path) and answer -version with exit status 0. Returns a wrapped sentinel
// error on failure.
func CheckDeps(ctx context.Context, binary string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%w (%s)", ErrFfmpegNotFound, binary)
	}
	if !runSilent(ctx, path, "-version") {
		return fmt.Errorf("%w (%s)", ErrFfmpegUnusable, path)
	}
	return nil
}

// RunCheck runs the interactive check flow: prints the ffmpeg version line
// and whether each required encoder is available. Returns false when ffmpeg
// is missing or an encoder is absent.
func RunCheck(ctx context.Context, binary string, log Logger) bool {
	log.Info("=== System Check ===")

	path, err := exec.LookPath(binary)
	if err != nil {
		log.Error("ffmpeg not found (%s)", binary)
		return false
	}
	version, err := firstLine(ctx, path, "-version")
	if err != nil {
		log.Error("ffmpeg found at %s but -version failed: %v", path, err)
		return false
	}
	log.Success("ffmpeg: %s", version)
	log.Info("  path: %s", path)

	return checkEncoders(ctx, path, log)
}

// checkEncoders lists ffmpeg's encoders and reports each required one.
func checkEncoders(ctx context.Context, path string, log Logger) bool {
	out, err := exec.CommandContext(ctx, path, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return false
	}
	available := parseEncoders(string(out))

	ok := true
	for _, name := range RequiredEncoders {
		if available[name] {
			log.Success("Encoder %s: available", name)
			continue
		}
		log.Error("Encoder %s: missing", name)
		ok = false
	}
	return ok
}

// parseEncoders extracts encoder names from `ffmpeg -encoders` output. Each
// encoder line is a flags column followed by the name, e.g.
// " V....D libx264              libx264 H.264 / AVC ...".
func parseEncoders(out string) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 || fields[1] == "=" {
			continue
		}
		names[fields[1]] = true
	}
	return names
}

// firstLine runs a command and returns the first line of its stdout.
func firstLine(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
