package ffmpeg

import "context"

// Outcome is the result of one transcode attempt.
type Outcome struct {
	Succeeded  bool
	OutputPath string // May or may not exist, depending on how ffmpeg failed.
	ExitCode   int
	Err        error
}

// Transcoder re-encodes one file per call with the fixed template.
type Transcoder struct {
	Binary string
	Runner Runner
}

// NewTranscoder returns a Transcoder invoking binary through runner. A nil
// runner uses [ExecRunner] with console output.
func NewTranscoder(binary string, runner Runner) *Transcoder {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Transcoder{Binary: binary, Runner: runner}
}

// Transcode writes the re-encoded inputPath into outputDir under the same
// base name. It runs ffmpeg exactly once and blocks until it exits.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputDir string) Outcome {
	outputPath := OutputPath(inputPath, outputDir)
	res := t.Runner.Run(ctx, Build(t.Binary, inputPath, outputPath))
	return Outcome{
		Succeeded:  res.Success(),
		OutputPath: outputPath,
		ExitCode:   res.ExitCode,
		Err:        res.Err,
	}
}
