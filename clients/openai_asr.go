package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// OpenAIASR transcribes through the hosted Whisper API with
// word-level timestamps. Accepts the upload as-is, no transcoding.
type OpenAIASR struct {
	h       *HTTP
	apiKey  string
	baseURL string
	model   string
}

type openAIWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type openAIASRResp struct {
	Text     string       `json:"text"`
	Language string       `json:"language"`
	Words    []openAIWord `json:"words"`
}

func (o *OpenAIASR) NeedsWAV() bool { return false }

func (o *OpenAIASR) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	_ = w.WriteField("model", o.model)
	_ = w.WriteField("response_format", "verbose_json")
	_ = w.WriteField("timestamp_granularities[]", "word")
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := o.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("openai asr %s: %s", resp.Status, string(body))
	}

	var out openAIASRResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "openai asr decode")
	}

	t := &Transcription{Text: out.Text, Language: out.Language}
	for _, w := range out.Words {
		t.Words = append(t.Words, TimedWord{Text: w.Word, Start: w.Start, End: w.End})
	}
	return t, nil
}
