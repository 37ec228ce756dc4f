// Package server exposes the price check pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"pricewatch/internal/monitor"
	"pricewatch/pkg/model"
)

// Checker runs the price check pipeline for one request.
type Checker interface {
	Check(ctx context.Context, req model.MonitorRequest) (model.MonitorResult, error)
}

// Server routes the notify, health and static endpoints.
type Server struct {
	checker   Checker
	staticDir string
	mux       *http.ServeMux
	logger    *slog.Logger
}

// NewServer creates the HTTP server around a checker.
func NewServer(checker Checker, staticDir string, logger *slog.Logger) *Server {
	s := &Server{
		checker:   checker,
		staticDir: staticDir,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/notify", s.handleNotify)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
}

// Handler returns the full handler chain: CORS, request ID, access log,
// then routing.
func (s *Server) Handler() http.Handler {
	return withCORS(withRequestID(withLogging(s.logger, s.mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "", "UI not found")
		return
	}
	http.ServeFile(w, r, index)
}

// notifyResponse is the success payload of POST /api/notify.
type notifyResponse struct {
	Status    string  `json:"status"`
	Price     float64 `json:"price"`
	Triggered bool    `json:"triggered"`
	SID       string  `json:"sid,omitempty"`
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req model.MonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.KindInvalidRequest, "request body is not valid JSON")
		return
	}

	result, err := s.checker.Check(r.Context(), req)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}

	resp := notifyResponse{
		Status:    "not_triggered",
		Price:     result.Price.Value.InexactFloat64(),
		Triggered: result.Triggered,
	}
	if result.Triggered {
		resp.Status = "sent"
		resp.SID = result.Notification.MessageID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeCheckError(w http.ResponseWriter, err error) {
	var perr *model.Error
	if !errors.As(err, &perr) {
		s.logger.Error("check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeError(w, statusFor(perr.Kind), perr.Kind, perr.Detail)
}

// statusFor maps a failure kind to an HTTP status. Caller mistakes and
// unusable pages are 400s, incomplete server-side configuration is a 500,
// and upstream failures are 502s.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidRequest,
		model.KindNoPriceFound,
		model.KindUnrecognizedFormat,
		model.KindParseFailure,
		model.KindRecipientMissing:
		return http.StatusBadRequest
	case model.KindCredentialsMissing, model.KindSenderMissing:
		return http.StatusInternalServerError
	case model.KindFetchFailure, model.KindDeliveryFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Detail string          `json:"detail"`
	Kind   model.ErrorKind `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind model.ErrorKind, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail, Kind: kind})
}

var _ Checker = (*monitor.Service)(nil)
