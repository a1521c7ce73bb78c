package clients

import (
	"context"

	"github.com/pkg/errors"

	cfg "github.com/confidence-coach/backend/config"
)

// TimedWord is a word or segment of speech with timestamps in seconds.
type TimedWord struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcription is the provider-independent transcription result.
type Transcription struct {
	Text     string
	Words    []TimedWord
	Language string
}

// Transcriber converts an audio file into timed text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcription, error)
	// NeedsWAV reports whether the provider requires the upload to be
	// transcoded to the configured WAV format first.
	NeedsWAV() bool
}

// PromptGenerator turns a context window into one short continuation
// prompt. Context shorter than the configured minimum returns the
// fixed fallback without an API call.
type PromptGenerator interface {
	Generate(ctx context.Context, contextWindow string) (string, error)
}

// NewTranscriber selects the configured transcription provider.
func NewTranscriber(c *cfg.Root, h *HTTP) (Transcriber, error) {
	switch c.Transcription.Provider {
	case "openai":
		if c.Keys.OpenAI == "" {
			return nil, errors.New("transcription: OPENAI_API_KEY not set")
		}
		url := c.Transcription.URL
		if url == "" {
			url = "https://api.openai.com/v1"
		}
		return &OpenAIASR{h: h, apiKey: c.Keys.OpenAI, baseURL: url, model: c.Transcription.Model}, nil
	case "whisper":
		if c.Transcription.URL == "" {
			return nil, errors.New("transcription: whisper provider needs transcription.url")
		}
		return &WhisperLocal{h: h, url: c.Transcription.URL}, nil
	}
	return nil, errors.Errorf("transcription: unknown provider %q", c.Transcription.Provider)
}

// NewPromptGenerator selects the configured prompt provider.
func NewPromptGenerator(c *cfg.Root, h *HTTP) (PromptGenerator, error) {
	switch c.Prompt.Provider {
	case "openai":
		if c.Keys.OpenAI == "" {
			return nil, errors.New("prompt: OPENAI_API_KEY not set")
		}
		url := c.Prompt.URL
		if url == "" {
			url = "https://api.openai.com/v1"
		}
		return &OpenAIPrompt{
			h: h, apiKey: c.Keys.OpenAI, baseURL: url,
			model: c.Prompt.Model, maxTokens: c.Prompt.MaxTokens,
			minContext: c.Analysis.MinContextChars, fallback: c.Analysis.FallbackPrompt,
		}, nil
	case "anthropic":
		if c.Keys.Anthropic == "" {
			return nil, errors.New("prompt: ANTHROPIC_API_KEY not set")
		}
		url := c.Prompt.URL
		if url == "" {
			url = "https://api.anthropic.com"
		}
		model := c.Prompt.Model
		if model == "" || model == "gpt-4" {
			model = "claude-sonnet-4-20250514"
		}
		return &AnthropicPrompt{
			h: h, apiKey: c.Keys.Anthropic, baseURL: url,
			model: model, maxTokens: c.Prompt.MaxTokens,
			minContext: c.Analysis.MinContextChars, fallback: c.Analysis.FallbackPrompt,
		}, nil
	}
	return nil, errors.Errorf("prompt: unknown provider %q", c.Prompt.Provider)
}
