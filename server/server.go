package server

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	cfg "github.com/confidence-coach/backend/config"
	"github.com/confidence-coach/backend/orchestrator"
)

// Server is the HTTP surface over one Pipeline.
type Server struct {
	cfg      *cfg.Root
	pipeline *orchestrator.Pipeline
}

func New(c *cfg.Root, p *orchestrator.Pipeline) *Server {
	return &Server{cfg: c, pipeline: p}
}

// Handler builds the router with request logging.
func (s *Server) Handler() http.Handler {
	r := httprouter.New()
	r.GET("/health", s.health)
	r.POST("/analyze", s.analyze)
	r.POST("/quick-prompt", s.quickPrompt)
	return withRequestLog(r)
}

func (s *Server) ListenAndServe() error {
	logrus.WithField("addr", s.cfg.Server.Addr).Info("server listening")
	return http.ListenAndServe(s.cfg.Server.Addr, s.Handler())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestLog(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		r = r.WithContext(orchestrator.WithSessionID(r.Context(), id))
		rec := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
		started := time.Now()
		h.ServeHTTP(rec, r)
		logrus.WithFields(logrus.Fields{
			"request": id,
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"took":    time.Since(started).Round(time.Millisecond).String(),
		}).Info("request handled")
	})
}
