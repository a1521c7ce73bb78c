package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confidence-coach/backend/clients"
	cfg "github.com/confidence-coach/backend/config"
	"github.com/confidence-coach/backend/orchestrator"
)

type stubTranscriber struct {
	tr  *clients.Transcription
	err error
}

func (s *stubTranscriber) NeedsWAV() bool { return false }

func (s *stubTranscriber) Transcribe(context.Context, string) (*clients.Transcription, error) {
	return s.tr, s.err
}

type stubGenerator struct {
	prompt string
	err    error
}

func (s *stubGenerator) Generate(context.Context, string) (string, error) {
	return s.prompt, s.err
}

func testServer(tr clients.Transcriber, gen clients.PromptGenerator) *Server {
	c := &cfg.Root{}
	c.Pipeline.Name = "confidence-coach"
	c.Server = cfg.Server{Addr: ":0", MaxUploadMB: 4}
	c.Analysis = cfg.Analysis{
		PauseThreshold:   3.0,
		ContextWindowSec: 15,
		MinContextChars:  10,
		FallbackPrompt:   "What's the main point you want to make?",
	}
	c.Transcription.TimeoutSec = 5
	c.Prompt.TimeoutSec = 5
	return New(c, orchestrator.NewPipeline(c, tr, gen))
}

func multipartAudio(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, "take1.webm")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-audio-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	srv := testServer(&stubTranscriber{}, &stubGenerator{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "confidence-coach", body["service"])
}

func TestAnalyzeMissingFile(t *testing.T) {
	srv := testServer(&stubTranscriber{}, &stubGenerator{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No audio file provided", resp["error"])
}

func TestAnalyzeSuccess(t *testing.T) {
	tr := &stubTranscriber{tr: &clients.Transcription{
		Text: "hello big pause world",
		Words: []clients.TimedWord{
			{Text: "hello", Start: 0, End: 0.5},
			{Text: "big", Start: 0.6, End: 0.9},
			{Text: "pause", Start: 1.0, End: 1.4},
			{Text: "world", Start: 6.0, End: 6.5},
		},
	}}
	srv := testServer(tr, &stubGenerator{prompt: "What happens after the pause?"})

	body, contentType := multipartAudio(t, "audio")
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res orchestrator.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "hello big pause world", res.Transcript)
	assert.Len(t, res.Words, 4)
	require.Len(t, res.Pauses, 1)
	assert.Equal(t, "What happens after the pause?", res.Pauses[0].AIPrompt)
	assert.Equal(t, 4, res.Metrics.WordCount)
	assert.Equal(t, 1, res.Metrics.PauseCount)
}

func TestAnalyzeProviderFailure(t *testing.T) {
	srv := testServer(&stubTranscriber{err: errors.New("provider down")}, &stubGenerator{})

	body, contentType := multipartAudio(t, "audio")
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "provider down")
}

func TestAnalyzeTimeoutMapsTo504(t *testing.T) {
	srv := testServer(&stubTranscriber{err: context.DeadlineExceeded}, &stubGenerator{})

	body, contentType := multipartAudio(t, "audio")
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestRequestIDCorrelatesAccessAndPipelineLogs(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	tr := &stubTranscriber{tr: &clients.Transcription{
		Text: "hello world",
		Words: []clients.TimedWord{
			{Text: "hello", Start: 0, End: 0.5},
			{Text: "world", Start: 0.6, End: 1.0},
		},
	}}
	srv := testServer(tr, &stubGenerator{prompt: "x"})

	body, contentType := multipartAudio(t, "audio")
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var requestID, sessionID interface{}
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "request handled":
			requestID = e.Data["request"]
		case "pauses detected":
			sessionID = e.Data["session"]
		}
	}
	require.NotNil(t, requestID)
	require.NotNil(t, sessionID)
	assert.Equal(t, requestID, sessionID, "access log and pipeline log should share one id")
}

func TestQuickPrompt(t *testing.T) {
	srv := testServer(&stubTranscriber{}, &stubGenerator{prompt: "What's one example?"})

	req := httptest.NewRequest(http.MethodPost, "/quick-prompt",
		strings.NewReader(`{"context":"talking about morning routines"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "talking about morning routines", resp["context"])
	assert.Equal(t, "What's one example?", resp["prompt"])
}

func TestQuickPromptMissingContext(t *testing.T) {
	srv := testServer(&stubTranscriber{}, &stubGenerator{})

	for _, body := range []string{"", "{}", `{"context":""}`, "not json"} {
		req := httptest.NewRequest(http.MethodPost, "/quick-prompt", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}
