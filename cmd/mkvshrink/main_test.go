package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/mkvshrink/internal/config"
)

// stubFFmpeg answers -version and -encoders like ffmpeg does and otherwise
// writes "encoded" to its last argument.
const stubFFmpeg = `#!/bin/sh
case "$*" in
  *-encoders*) printf ' V..... libx264  H.264\n A..... aac      AAC\n'; exit 0 ;;
  *-version*) echo "ffmpeg version 6.1-stub"; exit 0 ;;
esac
for last; do :; done
printf encoded > "$last"
`

type cliEnv struct {
	source string
	output string
	log    string
	ffmpeg string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	base := t.TempDir()
	env := &cliEnv{
		source: filepath.Join(base, "media"),
		output: filepath.Join(base, "scratch"),
		log:    filepath.Join(base, "logs", "run.log"),
		ffmpeg: filepath.Join(base, "bin", "ffmpeg"),
	}
	require.NoError(t, os.MkdirAll(env.source, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(env.ffmpeg), 0o755))
	require.NoError(t, os.WriteFile(env.ffmpeg, []byte(stubFFmpeg), 0o755))
	return env
}

func (e *cliEnv) args(extra ...string) []string {
	return append([]string{
		"--source", e.source, "--output", e.output, "--log", e.log,
		"--ffmpeg", e.ffmpeg, "--size", "0", "--color", "never",
	}, extra...)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "mkvshrink "+version+" ("+commit+")\n", out)
}

func TestRun_RequiresDirectories(t *testing.T) {
	_, _, err := execute(t, "", "--color", "never")
	assert.ErrorIs(t, err, config.ErrMissingDirs)
}

func TestRun_RejectsArguments(t *testing.T) {
	_, _, err := execute(t, "", "stray")
	assert.Error(t, err)
}

func TestRun_AutoConfirmCommits(t *testing.T) {
	env := newCLIEnv(t)
	movie := filepath.Join(env.source, "film", "movie.mkv")
	require.NoError(t, os.MkdirAll(filepath.Dir(movie), 0o755))
	require.NoError(t, os.WriteFile(movie, []byte("original bytes"), 0o644))

	_, _, err := execute(t, "", env.args("-y")...)
	require.NoError(t, err)

	b, err := os.ReadFile(movie)
	require.NoError(t, err)
	assert.Equal(t, "encoded", string(b))
	assert.NoFileExists(t, filepath.Join(env.output, "movie.mkv"))

	skipped, err := os.ReadFile(filepath.Join(env.output, config.SkipLogName))
	require.NoError(t, err)
	assert.Empty(t, skipped)

	logged, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "=== Video Processing Log ===")
	assert.Contains(t, string(logged), "Replaced original file: "+movie)
	assert.Contains(t, string(logged), "Script finished.")
}

func TestRun_PromptDeclineFromStdin(t *testing.T) {
	env := newCLIEnv(t)
	movie := filepath.Join(env.source, "movie.mkv")
	require.NoError(t, os.WriteFile(movie, []byte("original bytes"), 0o644))

	out, _, err := execute(t, "n\n", env.args()...)
	require.NoError(t, err)
	assert.Contains(t, out, "Do you want to process this file? (y/n): ")

	b, err := os.ReadFile(movie)
	require.NoError(t, err)
	assert.Equal(t, "original bytes", string(b))

	skipped, err := os.ReadFile(filepath.Join(env.output, config.SkipLogName))
	require.NoError(t, err)
	assert.Equal(t, movie+"\n", string(skipped))
}

func TestRun_ConfigFileSuppliesDirectories(t *testing.T) {
	env := newCLIEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "mkvshrink.toml")
	body := "source = \"" + env.source + "\"\noutput = \"" + env.output + "\"\nsize = 100\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	_, _, err := execute(t, "",
		"--config", cfgPath, "--log", env.log, "--ffmpeg", env.ffmpeg, "--color", "never", "--dry-run")
	require.NoError(t, err)
	assert.DirExists(t, env.output)
}

func TestRun_OutputInsideSourceRejected(t *testing.T) {
	env := newCLIEnv(t)
	args := env.args()
	args[3] = filepath.Join(env.source, "out", "nested")

	_, _, err := execute(t, "", args...)
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(env.source, "out"), "rejected output is never created")
}

func TestRun_SizeLimitTooLarge(t *testing.T) {
	env := newCLIEnv(t)
	movie := filepath.Join(env.source, "tiny.mkv")
	require.NoError(t, os.WriteFile(movie, []byte("x"), 0o644))

	_, _, err := execute(t, "", append(env.args("-y"), "--size", "8589934592")...)
	assert.Error(t, err)

	b, err := os.ReadFile(movie)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestResolveOutput(t *testing.T) {
	base := t.TempDir()
	resolvedBase, err := filepath.EvalSymlinks(base)
	require.NoError(t, err)

	got, err := resolveOutput(filepath.Join(base, "not", "yet"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedBase, "not", "yet"), got)

	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(resolvedBase, link))
	got, err = resolveOutput(filepath.Join(link, "out"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedBase, "out"), got)
}

func TestRun_SourceMustBeDirectory(t *testing.T) {
	env := newCLIEnv(t)
	file := filepath.Join(t.TempDir(), "movie.mkv")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	args := env.args()
	args[1] = file

	_, _, err := execute(t, "", args...)
	assert.Error(t, err)
}

func TestRun_LockHeld(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(env.output, 0o755))
	held := flock.New(filepath.Join(env.output, config.LockName))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = held.Unlock() })

	_, _, err = execute(t, "", env.args("-y")...)
	assert.ErrorContains(t, err, "locked")
}

func TestRun_MissingFFmpeg(t *testing.T) {
	env := newCLIEnv(t)
	env.ffmpeg = filepath.Join(t.TempDir(), "no-such-ffmpeg")

	_, _, err := execute(t, "", env.args("-y")...)
	assert.Error(t, err)
	assert.NoDirExists(t, env.output, "no output directory or lock file without ffmpeg")
}

func TestRun_UnexpectedFailureStillExitsZero(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.output, config.SkipLogName), 0o755))

	_, errOut, err := execute(t, "", env.args("-y")...)
	assert.NoError(t, err)
	assert.Contains(t, errOut, "Error: open skip log")
}

func TestCheckCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := execute(t, "", "check", "--ffmpeg", env.ffmpeg, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "ffmpeg version 6.1-stub")

	_, _, err = execute(t, "", "check", "--ffmpeg", filepath.Join(t.TempDir(), "missing"), "--color", "never")
	assert.ErrorIs(t, err, errCheckFailed)
}
