// Package web exposes the conversation over a small JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/metrics"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/pkg/log"
)

type Server struct {
	cfg      *config.HTTPConfig
	sessions *session.Manager
	srv      *http.Server
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, sessions *session.Manager, rec *metrics.Recorder) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
	}

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(ctx, rec),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(ctx context.Context, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(ctx))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/reset", s.handleReset)
		r.Get("/health", s.handleHealth)
	})
	r.Method(http.MethodGet, "/metrics", rec.Handler())

	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http api")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Empty message")
		return
	}

	h, err := s.sessions.GetOrCreate(ctx, s.sessionID(w, r))
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to open session")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply, err := h.Submit(ctx, message)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("turn failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h, err := s.sessions.GetOrCreate(ctx, s.sessionID(w, r))
	if err == nil {
		err = h.Reset(ctx)
	}
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to reset session")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation reset successfully"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.sessions.Count(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("session store unavailable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"error":     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"timestamp":       time.Now().Format(time.RFC3339),
		"active_sessions": count,
	})
}

// sessionID reads the session cookie, issuing a new one when absent.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cfg.SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
