package server

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/confidence-coach/backend/orchestrator"
)

func writeData(rw http.ResponseWriter, code int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		logrus.WithError(err).Error("encoding response")
	}
}

func writeError(rw http.ResponseWriter, code int, msg string) {
	writeData(rw, code, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch orchestrator.KindOf(err) {
	case orchestrator.KindMissingInput:
		return http.StatusBadRequest
	case orchestrator.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) health(rw http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeData(rw, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.cfg.Pipeline.Name,
	})
}

func (s *Server) analyze(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(rw, r.Body, s.cfg.Server.MaxUploadMB<<20)

	f, hdr, err := r.FormFile("audio")
	if err != nil {
		writeError(rw, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer f.Close()

	res, err := s.pipeline.Analyze(r.Context(), f, hdr.Filename)
	if err != nil {
		logrus.WithError(err).Error("analyze failed")
		writeError(rw, statusFor(err), err.Error())
		return
	}
	writeData(rw, http.StatusOK, res)
}

type quickPromptReq struct {
	Context string `json:"context"`
}

func (s *Server) quickPrompt(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req quickPromptReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Context == "" {
		writeError(rw, http.StatusBadRequest, "No context provided")
		return
	}

	prompt, err := s.pipeline.QuickPrompt(r.Context(), req.Context)
	if err != nil {
		logrus.WithError(err).Error("quick prompt failed")
		writeError(rw, statusFor(err), err.Error())
		return
	}
	writeData(rw, http.StatusOK, map[string]interface{}{
		"success": true,
		"context": req.Context,
		"prompt":  prompt,
	})
}
