package config

// This file binds CLI flags onto a Config. Flag defaults are taken from the
// Config passed in, so DefaultConfig (and any config file applied later)
// hold unless the user sets the flag.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names shared by BindFlags and File.Apply.
const (
	FlagSource      = "source"
	FlagOutput      = "output"
	FlagLog         = "log"
	FlagSize        = "size"
	FlagAutoConfirm = "auto-confirm"
	FlagExtension   = "ext"
	FlagFFmpeg      = "ffmpeg"
	FlagDryRun      = "dry-run"
	FlagVerbose     = "verbose"
	FlagColor       = "color"
)

// BindFlags registers the run flags on fs, writing parsed values into cfg.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.SourceDir, FlagSource, "s", cfg.SourceDir, "Source directory containing video files")
	fs.StringVarP(&cfg.OutputDir, FlagOutput, "o", cfg.OutputDir, "Output directory for transcoded files")
	fs.StringVarP(&cfg.LogFile, FlagLog, "l", cfg.LogFile, "Run log file (overwritten each run)")
	fs.IntVar(&cfg.SizeLimitGB, FlagSize, cfg.SizeLimitGB, "Size limit in GB; only larger files are processed")
	fs.BoolVarP(&cfg.AutoConfirm, FlagAutoConfirm, "y", cfg.AutoConfirm, "Process every file without prompting")
	fs.StringVar(&cfg.Extension, FlagExtension, cfg.Extension, "File extension to scan for")
	fs.StringVar(&cfg.FFmpegBinary, FlagFFmpeg, cfg.FFmpegBinary, "ffmpeg binary name or path")
	fs.BoolVarP(&cfg.DryRun, FlagDryRun, "d", cfg.DryRun, "List candidates only; do not transcode")
	fs.BoolVarP(&cfg.Verbose, FlagVerbose, "v", cfg.Verbose, "Verbose output")
	fs.Var(&colorModeValue{&cfg.ColorMode}, FlagColor, "Color output: auto | always | never")
}

// ParseColorMode converts user input into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
}

// pflag.Value adapter so ColorMode can be used with fs.Var.
type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	mode, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*c.p = mode
	return nil
}
