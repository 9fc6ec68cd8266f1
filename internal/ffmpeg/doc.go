// Package ffmpeg builds and runs the fixed ffmpeg re-encode command.
//
// [Build] produces the argument template (H.264 high@4.1 at 5000k and
// 23.976 fps for stream 0, 6-channel AAC at 320k for stream 1). [Runner] is
// the process capability; [ExecRunner] is the real implementation and tests
// substitute a fake. [Transcoder] ties the two together and reports a
// single [Outcome] per input. It never retries and never diagnoses failures.
package ffmpeg
