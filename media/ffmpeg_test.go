package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cfg "github.com/confidence-coach/backend/config"
)

func TestTranscodeArgs(t *testing.T) {
	a := cfg.Audio{SampleRate: 16000, Channels: 1, Codec: "pcm_s16le"}
	args := TranscodeArgs("/tmp/in.webm", "/tmp/out.wav", a)
	assert.Equal(t, []string{
		"-y",
		"-i", "/tmp/in.webm",
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"/tmp/out.wav",
	}, args)
}
