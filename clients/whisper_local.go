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
	"strings"

	"github.com/pkg/errors"
)

// WhisperLocal transcribes through a self-hosted whisper service.
// The service expects normalized WAV (see config.Audio) and returns
// segment-level timings.
type WhisperLocal struct {
	h   *HTTP
	url string
}

type whisperSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type whisperResp struct {
	Text     string       `json:"text"`
	Segments []whisperSeg `json:"segments"`
	Language string       `json:"language"`
}

func (wl *WhisperLocal) NeedsWAV() bool { return true }

func (wl *WhisperLocal) Transcribe(ctx context.Context, wavPath string) (*Transcription, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(wavPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wl.url+"/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := wl.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("whisper %s: %s", resp.Status, string(body))
	}

	var out whisperResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "whisper decode")
	}

	t := &Transcription{Text: out.Text, Language: out.Language}
	var parts []string
	for _, s := range out.Segments {
		t.Words = append(t.Words, TimedWord{Text: strings.TrimSpace(s.Text), Start: s.Start, End: s.End})
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	if t.Text == "" {
		t.Text = strings.Join(parts, " ")
	}
	return t, nil
}
