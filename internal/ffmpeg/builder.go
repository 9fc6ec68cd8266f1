package ffmpeg

import (
	"path/filepath"
	"strconv"
)

// Fixed encode parameters. These are passed through to ffmpeg unchanged.
const (
	FrameRate     = "24000/1001"
	VideoCodec    = "libx264"
	VideoBitrate  = "5000k"
	VideoProfile  = "high"
	VideoLevel    = "4.1"
	VideoCoder    = "cabac"
	AudioCodec    = "aac"
	AudioBitrate  = "320k"
	AudioChannels = 6
)

// OutputPath returns where the transcode of inputPath is written: the input's
// base name under outputDir.
func OutputPath(inputPath, outputDir string) string {
	return filepath.Join(outputDir, filepath.Base(inputPath))
}

// Build constructs the complete ffmpeg argument slice, binary first.
//
// Stream 0 is assumed to be the primary video and stream 1 the primary
// audio. Files with a different layout make ffmpeg fail, which the caller
// treats like any other failed transcode.
func Build(binary, inputPath, outputPath string) []string {
	args := make([]string, 0, 40)

	// --- Preamble ---
	// -nostdin keeps ffmpeg away from the confirmation prompt's input;
	// -y overwrites a stale output left behind by an interrupted run.
	args = append(args, binary, "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error", "-stats")

	// --- Input ---
	args = append(args, "-i", inputPath)

	// --- Video: stream 0 ---
	args = append(args,
		"-map", "0:0",
		"-filter:v", "fps="+FrameRate,
		"-c:v", VideoCodec,
		"-b:v", VideoBitrate,
		"-profile:v", VideoProfile,
		"-level:v", VideoLevel,
		"-coder", VideoCoder,
	)

	// --- Audio: stream 1 ---
	args = append(args,
		"-map", "0:1",
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-ac", strconv.Itoa(AudioChannels),
		"-disposition:a:0", "default",
	)

	// --- Output ---
	return append(args, outputPath)
}
