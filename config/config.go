package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// Audio describes the normalized format handed to the local
// transcription backend. The hosted backend accepts uploads as-is.
type Audio struct {
	SampleRate int    `mapstructure:"sample_rate"`
	Channels   int    `mapstructure:"channels"`
	Codec      string `mapstructure:"codec"`
	FFmpegPath string `mapstructure:"ffmpeg_path"`
}

type Analysis struct {
	PauseThreshold   float64 `mapstructure:"pause_threshold"`
	ContextWindowSec float64 `mapstructure:"context_window_sec"`
	MinContextChars  int     `mapstructure:"min_context_chars"`
	FallbackPrompt   string  `mapstructure:"fallback_prompt"`
}

type Transcription struct {
	Provider   string `mapstructure:"provider"` // "openai" or "whisper"
	URL        string `mapstructure:"url"`
	Model      string `mapstructure:"model"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Prompt struct {
	Provider   string `mapstructure:"provider"` // "openai" or "anthropic"
	URL        string `mapstructure:"url"`
	Model      string `mapstructure:"model"`
	MaxTokens  int    `mapstructure:"max_tokens"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// Keys holds provider API keys. Normally set through OPENAI_API_KEY
// and ANTHROPIC_API_KEY rather than the config file.
type Keys struct {
	OpenAI    string `mapstructure:"openai"`
	Anthropic string `mapstructure:"anthropic"`
}

type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		LogLvl  string `mapstructure:"log_level"`
	} `mapstructure:"pipeline"`
	Server        Server        `mapstructure:"server"`
	Audio         Audio         `mapstructure:"audio"`
	Analysis      Analysis      `mapstructure:"analysis"`
	Transcription Transcription `mapstructure:"transcription"`
	Prompt        Prompt        `mapstructure:"prompt"`
	Keys          Keys          `mapstructure:"keys"`
}

// Load resolves configuration from config/<COACH_ENV>/config.yaml
// (or an explicit file given by COACH_CONFIG), environment variables,
// then defaults. A missing file is fine; defaults cover every knob.
func Load() (*Root, error) {
	v := viper.New()

	v.SetDefault("pipeline.name", "confidence-coach")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")

	v.SetDefault("server.addr", ":5001")
	v.SetDefault("server.max_upload_mb", 64)

	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.codec", "pcm_s16le")
	v.SetDefault("audio.ffmpeg_path", "ffmpeg")

	v.SetDefault("analysis.pause_threshold", 3.0)
	v.SetDefault("analysis.context_window_sec", 15.0)
	v.SetDefault("analysis.min_context_chars", 10)
	v.SetDefault("analysis.fallback_prompt", "What's the main point you want to make?")

	v.SetDefault("transcription.provider", "openai")
	v.SetDefault("transcription.url", "")
	v.SetDefault("transcription.model", "whisper-1")
	v.SetDefault("transcription.timeout_sec", 120)

	v.SetDefault("prompt.provider", "openai")
	v.SetDefault("prompt.url", "")
	v.SetDefault("prompt.model", "gpt-4")
	v.SetDefault("prompt.max_tokens", 100)
	v.SetDefault("prompt.timeout_sec", 30)

	v.SetEnvPrefix("coach")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("keys.openai", "OPENAI_API_KEY")
	_ = v.BindEnv("keys.anthropic", "ANTHROPIC_API_KEY")

	if path := v.GetString("config"); path != "" { // COACH_CONFIG
		v.SetConfigFile(path)
	} else {
		env := v.GetString("env") // COACH_ENV
		if env == "" {
			env = "dev"
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("config/" + env)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
