// Package config holds runtime configuration: defaults, CLI flag binding,
// optional config files, and validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

const (
	// SkipLogName is the skip/failure log kept inside the output directory.
	SkipLogName = "skipped_files.log"
	// LockName guards the output directory against a second concurrent run.
	LockName = ".mkvshrink.lock"

	bytesPerGiB = 1024 * 1024 * 1024

	// MaxSizeLimitGB is the largest size limit whose byte threshold fits in
	// an int64.
	MaxSizeLimitGB = math.MaxInt64 / bytesPerGiB
)

// ErrMissingDirs is returned by [Config.Validate] when the source or output
// directory is unset.
var ErrMissingDirs = errors.New("both --source and --output directories are required")

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// by an optional config file, then by CLI flags, before being passed (by
// pointer) to the packages that need it.
type Config struct {
	// Paths.
	SourceDir string
	OutputDir string
	LogFile   string // Default: <tmp>/mkvshrink.log. Overwritten each run.

	// Selection.
	SizeLimitGB int    // Default: 15. Files must be strictly larger (GiB, 1024³).
	Extension   string // Default: ".mkv".

	// Behavior.
	AutoConfirm  bool   // Process every candidate without prompting.
	DryRun       bool   // List candidates only.
	FFmpegBinary string // Default: "ffmpeg".

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
}

// DefaultConfig returns a Config with every default applied. Used as the base
// before a config file and CLI flags apply overrides.
func DefaultConfig() Config {
	return Config{
		LogFile:      filepath.Join(os.TempDir(), "mkvshrink.log"),
		SizeLimitGB:  15,
		Extension:    ".mkv",
		AutoConfirm:  false,
		DryRun:       false,
		FFmpegBinary: "ffmpeg",
		Verbose:      false,
		ColorMode:    ColorAuto,
	}
}

// ThresholdBytes converts SizeLimitGB to bytes using binary gigabytes. It is
// only meaningful for a Config that passed [Config.Validate].
func (c *Config) ThresholdBytes() int64 {
	return int64(c.SizeLimitGB) * bytesPerGiB
}

// SkipLogPath returns the location of the skip/failure log.
func (c *Config) SkipLogPath() string {
	return filepath.Join(c.OutputDir, SkipLogName)
}

// LockPath returns the location of the output directory lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.OutputDir, LockName)
}

// Normalize expands a leading "~" in every path and strips trailing slashes
// from the directory arguments.
func (c *Config) Normalize() error {
	for _, p := range []*string{&c.SourceDir, &c.OutputDir, &c.LogFile} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	c.SourceDir = NormalizeDirArg(c.SourceDir)
	c.OutputDir = NormalizeDirArg(c.OutputDir)
	c.Extension = strings.TrimSpace(c.Extension)
	return nil
}

// ExpandPath replaces a leading "~" with the current user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range fields, then requires both directories.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.SizeLimitGB < 0 {
		return fmt.Errorf("size limit must not be negative (got %d)", c.SizeLimitGB)
	}
	if int64(c.SizeLimitGB) > MaxSizeLimitGB {
		return fmt.Errorf("size limit %d GB is too large (max %d)", c.SizeLimitGB, int64(MaxSizeLimitGB))
	}
	if len(c.Extension) < 2 || !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("invalid extension %q (use a leading dot, e.g. .mkv)", c.Extension)
	}
	if strings.TrimSpace(c.FFmpegBinary) == "" {
		return errors.New("ffmpeg binary must not be empty")
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return errors.New("log file path must not be empty")
	}

	if c.SourceDir == "" || c.OutputDir == "" {
		return ErrMissingDirs
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved source directory. Transcoded files are named after their
// source, so an output directory inside the tree could collide with or be
// rediscovered as a candidate. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == sourceAbs || strings.HasPrefix(outputAbs+sep, sourceAbs+sep) {
		return errors.New("output directory must not be inside source directory")
	}
	return nil
}
