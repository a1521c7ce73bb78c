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

// AnthropicPrompt generates continuation prompts via the messages API.
type AnthropicPrompt struct {
	h          *HTTP
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	minContext int
	fallback   string
}

type anthropicReq struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (a *AnthropicPrompt) Generate(ctx context.Context, contextWindow string) (string, error) {
	if len(strings.TrimSpace(contextWindow)) < a.minContext {
		return a.fallback, nil
	}

	payload, _ := json.Marshal(anthropicReq{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    coachInstruction,
		Messages: []chatMessage{
			{Role: "user", Content: coachUserMessage(contextWindow)},
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.h.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("anthropic prompt %s: %s", resp.Status, string(body))
	}

	var out anthropicResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "anthropic prompt decode")
	}
	if len(out.Content) == 0 {
		return "", errors.New("anthropic prompt: empty content")
	}
	return cleanPrompt(out.Content[0].Text), nil
}
