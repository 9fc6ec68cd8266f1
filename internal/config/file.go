package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration. Every field is optional; unset fields
// leave the corresponding Config value alone.
//
//	source = "/srv/media"
//	output = "/srv/scratch"
//	size = 20
//	auto_confirm = true
type File struct {
	Source      *string `toml:"source" yaml:"source"`
	Output      *string `toml:"output" yaml:"output"`
	Log         *string `toml:"log" yaml:"log"`
	Size        *int    `toml:"size" yaml:"size"`
	AutoConfirm *bool   `toml:"auto_confirm" yaml:"auto_confirm"`
	Extension   *string `toml:"extension" yaml:"extension"`
	FFmpeg      *string `toml:"ffmpeg" yaml:"ffmpeg"`
	DryRun      *bool   `toml:"dry_run" yaml:"dry_run"`
	Verbose     *bool   `toml:"verbose" yaml:"verbose"`
	Color       *string `toml:"color" yaml:"color"`
}

// LoadFile reads a TOML (.toml) or YAML (.yaml, .yml) config file. Unknown
// keys are rejected so typos surface instead of being silently ignored.
func LoadFile(path string) (File, error) {
	var f File

	expanded, err := ExpandPath(path)
	if err != nil {
		return f, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return f, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return f, fmt.Errorf("parse config %s: %w", expanded, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return f, fmt.Errorf("parse config %s: %w", expanded, err)
		}
	default:
		return f, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(expanded))
	}
	return f, nil
}

// Apply copies the values set in f into cfg, except for fields whose flag was
// explicitly set on the command line (changed reports that by flag name).
// Precedence is therefore defaults < file < flags.
func (f File) Apply(cfg *Config, changed func(flag string) bool) error {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	setString(f.Source, &cfg.SourceDir, changed(FlagSource))
	setString(f.Output, &cfg.OutputDir, changed(FlagOutput))
	setString(f.Log, &cfg.LogFile, changed(FlagLog))
	setString(f.Extension, &cfg.Extension, changed(FlagExtension))
	setString(f.FFmpeg, &cfg.FFmpegBinary, changed(FlagFFmpeg))

	if f.Size != nil && !changed(FlagSize) {
		cfg.SizeLimitGB = *f.Size
	}
	if f.AutoConfirm != nil && !changed(FlagAutoConfirm) {
		cfg.AutoConfirm = *f.AutoConfirm
	}
	if f.DryRun != nil && !changed(FlagDryRun) {
		cfg.DryRun = *f.DryRun
	}
	if f.Verbose != nil && !changed(FlagVerbose) {
		cfg.Verbose = *f.Verbose
	}
	if f.Color != nil && !changed(FlagColor) {
		mode, err := ParseColorMode(*f.Color)
		if err != nil {
			return err
		}
		cfg.ColorMode = mode
	}
	return nil
}

func setString(src *string, dst *string, flagSet bool) {
	if src == nil || flagSet {
		return
	}
	*dst = *src
}
