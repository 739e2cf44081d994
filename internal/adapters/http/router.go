package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kirillkom/applicant-screener/internal/config"
	"github.com/kirillkom/applicant-screener/internal/core/ports"
	"github.com/kirillkom/applicant-screener/internal/observability/metrics"
)

const (
	serviceName          = "api"
	defaultMaxUploadMB   = 20
	multipartMemoryBytes = 8 << 20
	maxAnalyzeBodyBytes  = 1 << 20
)

type Router struct {
	cfg        config.Config
	screener   ports.ResumeScreener
	analyzer   ports.TextAnalyzer
	candidates ports.CandidateReader
	metrics    *metrics.HTTPServerMetrics
}

type RouterOption func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func NewRouter(
	cfg config.Config,
	screener ports.ResumeScreener,
	analyzer ports.TextAnalyzer,
	candidates ports.CandidateReader,
	opts ...RouterOption,
) *Router {
	rt := &Router{
		cfg:        cfg,
		screener:   screener,
		analyzer:   analyzer,
		candidates: candidates,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/candidates", rt.screenCandidates)
	mux.HandleFunc("GET /v1/candidates", rt.listCandidates)
	mux.HandleFunc("GET /v1/candidates/export", rt.exportCandidates)
	mux.HandleFunc("GET /v1/candidates/{id}", rt.getCandidateByID)
	mux.HandleFunc("POST /v1/analyze", rt.analyzeText)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var onLimited func()
	var handler http.Handler = mux
	if rt.metrics != nil {
		onLimited = func() { rt.metrics.RecordRateLimited(serviceName) }
	}
	handler = rateLimitMiddleware(rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onLimited, handler)
	handler = corsMiddleware(rt.cfg.CORSAllowedOrigins, handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) maxUploadBytes() int64 {
	mb := rt.cfg.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestIDFromContext(r.Context())})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, RequestID: requestIDFromContext(r.Context())})
}
