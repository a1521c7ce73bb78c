package media

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"

	cfg "github.com/confidence-coach/backend/config"
)

// TranscodeArgs builds the ffmpeg argument list that strips video and
// normalizes audio to the configured rate/channels/codec.
func TranscodeArgs(in, out string, a cfg.Audio) []string {
	return []string{
		"-y",
		"-i", in,
		"-vn",
		"-acodec", a.Codec,
		"-ar", strconv.Itoa(a.SampleRate),
		"-ac", strconv.Itoa(a.Channels),
		out,
	}
}

// Transcode runs ffmpeg to produce a normalized WAV at out.
func Transcode(ctx context.Context, in, out string, a cfg.Audio) error {
	bin := a.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, TranscodeArgs(in, out, a)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg: %s", stderr.String())
	}
	return nil
}
