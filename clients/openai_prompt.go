package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// coachInstruction is the fixed instruction payload for both prompt
// providers. It caps the suggestion conversationally to ~15 words.
const coachInstruction = `You help creators who freeze while recording short videos.

Given the last 15 seconds of what they said, generate ONE short prompt to help them continue.

RULES:
- Be specific to their topic, not generic
- Phrase as a question or suggestion
- Conversational tone
- Under 15 words
- No "you got this" fluff - that doesn't help
- Think: what would a supportive friend whisper to help them continue?

GOOD EXAMPLES:
- "What's a specific example of that?"
- "Why does that matter to you personally?"
- "What would you tell someone who disagrees?"

BAD EXAMPLES:
- "Keep going, you're doing great!" (generic, unhelpful)
- "Continue with your thought" (too vague)
- "Consider elaborating on the aforementioned topic" (too formal)`

func coachUserMessage(contextWindow string) string {
	return "Creator was saying: \"" + contextWindow + "\"\n\nThey froze. Give them ONE prompt to continue:"
}

func cleanPrompt(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// OpenAIPrompt generates continuation prompts via chat completions.
type OpenAIPrompt struct {
	h          *HTTP
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	minContext int
	fallback   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResp struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIPrompt) Generate(ctx context.Context, contextWindow string) (string, error) {
	if len(strings.TrimSpace(contextWindow)) < o.minContext {
		return o.fallback, nil
	}

	payload, _ := json.Marshal(chatReq{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: coachInstruction},
			{Role: "user", Content: coachUserMessage(contextWindow)},
		},
		MaxTokens:   o.maxTokens,
		Temperature: 0.7,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.h.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("openai prompt %s: %s", resp.Status, string(body))
	}

	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "openai prompt decode")
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai prompt: empty choices")
	}
	return cleanPrompt(out.Choices[0].Message.Content), nil
}
