package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/mkvshrink/internal/check"
	"github.com/backmassage/mkvshrink/internal/logging"
)

var errCheckFailed = errors.New("system check failed")

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg and the required encoders are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd, false); err != nil {
				return err
			}
			log := logging.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if !check.RunCheck(cmd.Context(), opts.cfg.FFmpegBinary, log) {
				return errCheckFailed
			}
			return nil
		},
	}
}
