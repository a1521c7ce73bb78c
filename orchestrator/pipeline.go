package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/confidence-coach/backend/clients"
	cfg "github.com/confidence-coach/backend/config"
	"github.com/confidence-coach/backend/media"
)

// Pipeline sequences one recording through transcription, pause
// detection, prompt generation and metrics. It is stateless across
// sessions; every temp artifact it creates is removed before return.
type Pipeline struct {
	cfg         *cfg.Root
	transcriber clients.Transcriber
	prompts     clients.PromptGenerator
}

func NewPipeline(c *cfg.Root, t clients.Transcriber, g clients.PromptGenerator) *Pipeline {
	return &Pipeline{cfg: c, transcriber: t, prompts: g}
}

type sessionKey struct{}

// WithSessionID attaches a request-scoped session id to ctx so the
// HTTP access log and the pipeline logs share one id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func sessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey{}).(string); ok && id != "" {
		return id
	}
	return xid.New().String()
}

// Analyze runs the full session for one uploaded recording.
func (p *Pipeline) Analyze(ctx context.Context, audio io.Reader, filename string) (*Result, error) {
	started := time.Now()
	log := logrus.WithField("session", sessionID(ctx))

	audioPath, cleanup, err := p.spool(audio, filename)
	if err != nil {
		return nil, &Error{Kind: KindTranscription, Err: err}
	}
	defer cleanup()

	if p.transcriber.NeedsWAV() {
		wavPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".wav"
		// registered before Transcode: ffmpeg can leave a partial file
		// behind when it fails or the request context is cancelled
		defer os.Remove(wavPath)
		log.Debug("normalizing audio")
		mctx, mcancel := context.WithTimeout(ctx, cfg.DurSeconds(p.cfg.Transcription.TimeoutSec))
		err := media.Transcode(mctx, audioPath, wavPath, p.cfg.Audio)
		mcancel()
		if err != nil {
			return nil, classify(KindTranscription, err, "transcode")
		}
		audioPath = wavPath
	}

	tctx, cancel := context.WithTimeout(ctx, cfg.DurSeconds(p.cfg.Transcription.TimeoutSec))
	defer cancel()
	tr, err := p.transcriber.Transcribe(tctx, audioPath)
	if err != nil {
		return nil, classify(KindTranscription, err, "transcribe")
	}
	if len(tr.Words) == 0 {
		return nil, &Error{Kind: KindTranscription, Err: errors.New("transcription returned no timed units")}
	}

	units := make([]Word, 0, len(tr.Words))
	for _, w := range tr.Words {
		units = append(units, Word{Text: w.Text, Start: w.Start, End: w.End})
	}

	pauses := DetectPauses(units, p.cfg.Analysis.PauseThreshold, p.cfg.Analysis.ContextWindowSec)
	log.WithFields(logrus.Fields{"units": len(units), "pauses": len(pauses)}).Info("pauses detected")

	for i := range pauses {
		if pauses[i].ContextBefore == "" {
			pauses[i].AIPrompt = p.cfg.Analysis.FallbackPrompt
			continue
		}
		prompt, err := p.generate(ctx, pauses[i].ContextBefore)
		if err != nil {
			return nil, classify(KindPromptGeneration, err, "generate prompt")
		}
		pauses[i].AIPrompt = prompt
	}

	metrics := CalculateMetrics(tr.Text, pauses, len(pauses))

	return &Result{
		Success:        true,
		Transcript:     tr.Text,
		Words:          units,
		Pauses:         pauses,
		Metrics:        metrics,
		ProcessingTime: round2(time.Since(started).Seconds()),
	}, nil
}

// QuickPrompt generates one prompt from text context only.
func (p *Pipeline) QuickPrompt(ctx context.Context, contextWindow string) (string, error) {
	prompt, err := p.generate(ctx, contextWindow)
	if err != nil {
		return "", classify(KindPromptGeneration, err, "generate prompt")
	}
	return prompt, nil
}

func (p *Pipeline) generate(ctx context.Context, contextWindow string) (string, error) {
	gctx, cancel := context.WithTimeout(ctx, cfg.DurSeconds(p.cfg.Prompt.TimeoutSec))
	defer cancel()
	return p.prompts.Generate(gctx, contextWindow)
}

// spool writes the upload to a per-session temp file, preserving the
// original extension so ffmpeg and providers can sniff the container.
func (p *Pipeline) spool(audio io.Reader, filename string) (string, func(), error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".webm"
	}
	tmp, err := os.CreateTemp("", "coach-*"+ext)
	if err != nil {
		return "", nil, errors.Wrap(err, "spool upload")
	}
	if _, err := io.Copy(tmp, audio); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, errors.Wrap(err, "spool upload")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, errors.Wrap(err, "spool upload")
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}
