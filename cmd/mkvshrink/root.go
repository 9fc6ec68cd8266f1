package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/mkvshrink/internal/config"
	"github.com/backmassage/mkvshrink/internal/term"
)

// options is shared by the root command and its subcommands.
type options struct {
	cfg        config.Config
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &options{cfg: config.DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "mkvshrink --source DIR --output DIR [flags]",
		Short: "Re-encode oversized .mkv files and replace them in place",
		Long: `mkvshrink walks the source directory for .mkv files larger than --size GB,
asks whether to process each one (unless --auto-confirm), re-encodes it with
ffmpeg into the output directory and moves the result over the original.
Declined and failed files are listed in <output>/skipped_files.log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd, true); err != nil {
				return err
			}
			return runShrink(cmd, &opts.cfg)
		},
	}

	config.BindFlags(rootCmd.PersistentFlags(), &opts.cfg)
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (.toml, .yaml or .yml)")

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// resolve layers the config file under explicitly set flags, normalizes and
// validates the result and applies the color mode. Directories are only
// required when needDirs is set.
func (o *options) resolve(cmd *cobra.Command, needDirs bool) error {
	if o.configPath != "" {
		file, err := config.LoadFile(o.configPath)
		if err != nil {
			return err
		}
		if err := file.Apply(&o.cfg, cmd.Flags().Changed); err != nil {
			return err
		}
	}

	if err := o.cfg.Normalize(); err != nil {
		return err
	}
	if err := o.cfg.Validate(); err != nil {
		if !errors.Is(err, config.ErrMissingDirs) || needDirs {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	term.Configure(o.cfg.ColorMode)
	return nil
}
