package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ConversionError reports a transcoder that could not start or exited
// non-zero. ExitCode is -1 when the process never ran.
type ConversionError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ConversionError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("audio conversion could not start: %v", e.Err)
	}
	return fmt.Sprintf("audio conversion failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Config describes the raw input format and where artifacts go.
type Config struct {
	FFmpegPath  string
	WorkDir     string
	SampleRate  int
	Channels    int
	MaxDuration time.Duration
}

// Artifact is the pair of files produced for one stream. The caller owns it
// after a successful Convert and must call Remove.
type Artifact struct {
	RawPath string
	WavPath string
}

// Remove deletes both files, ignoring ones that do not exist.
func (a *Artifact) Remove() error {
	var firstErr error
	for _, p := range []string{a.RawPath, a.WavPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Converter turns buffered μ-law call audio into a WAV file by running
// ffmpeg.
type Converter struct {
	cfg    Config
	logger *zap.SugaredLogger
}

func NewConverter(cfg Config, logger *zap.SugaredLogger) *Converter {
	return &Converter{cfg: cfg, logger: logger}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ArtifactFor returns the deterministic file names for a stream.
func (c *Converter) ArtifactFor(streamSid string) *Artifact {
	name := "call-" + unsafeName.ReplaceAllString(streamSid, "_")
	return &Artifact{
		RawPath: filepath.Join(c.cfg.WorkDir, name+".ulaw"),
		WavPath: filepath.Join(c.cfg.WorkDir, name+".wav"),
	}
}

func (c *Converter) args(in, out string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "mulaw",
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-t", strconv.Itoa(int(c.cfg.MaxDuration / time.Second)),
		"-i", in,
		out,
	}
}

// Convert writes raw to disk and transcodes it. On error nothing is left on
// disk and the error is a *ConversionError when the transcoder itself
// failed.
func (c *Converter) Convert(ctx context.Context, streamSid string, raw []byte) (*Artifact, error) {
	art := c.ArtifactFor(streamSid)

	if err := os.WriteFile(art.RawPath, raw, 0o600); err != nil {
		return nil, errors.Wrapf(err, "write raw audio %s", art.RawPath)
	}
	c.logger.Infow("💾 Saved raw audio", "path", art.RawPath, "bytes", len(raw))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.cfg.FFmpegPath, c.args(art.RawPath, art.WavPath)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = art.Remove()
		convErr := &ConversionError{ExitCode: -1, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			convErr.ExitCode = exitErr.ExitCode()
		}
		c.logger.Errorw("ffmpeg failed", "exit_code", convErr.ExitCode, "stderr", convErr.Stderr, "error", err)
		return nil, convErr
	}

	c.logger.Infow("🎧 Wav ready", "path", art.WavPath)
	return art, nil
}
