// Package httpapi exposes the quiz over HTTP and WebSocket.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/p-n-ai/verse-quiz/internal/corpus"
	"github.com/p-n-ai/verse-quiz/internal/play"
	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

const readyTimeout = 2 * time.Second

// HealthChecker reports whether a backend is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HistoryReader returns the recorded outcomes, oldest first.
type HistoryReader interface {
	Entries(ctx context.Context) ([]quiz.Outcome, error)
}

// Config holds dependencies for the API handler. Ready and History are
// optional.
type Config struct {
	Corpus   *corpus.Corpus
	Sessions *play.Manager
	Ready    HealthChecker
	History  HistoryReader
}

// Handler serves the quiz API.
type Handler struct {
	corpus   *corpus.Corpus
	sessions *play.Manager
	ready    HealthChecker
	history  HistoryReader
	mux      *http.ServeMux
}

// New creates the HTTP router.
func New(cfg Config) *Handler {
	h := &Handler{
		corpus:   cfg.Corpus,
		sessions: cfg.Sessions,
		ready:    cfg.Ready,
		history:  cfg.History,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /healthz", h.handleHealthz)
	h.mux.HandleFunc("GET /readyz", h.handleReadyz)
	h.mux.HandleFunc("GET /v1/corpus", h.handleCorpus)
	h.mux.HandleFunc("GET /v1/history", h.handleHistory)
	h.mux.HandleFunc("POST /v1/sessions", h.handleStart)
	h.mux.HandleFunc("GET /v1/sessions/{id}", h.handleView)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}", h.handleEnd)
	h.mux.HandleFunc("POST /v1/sessions/{id}/answer", h.handleAnswer)
	h.mux.HandleFunc("POST /v1/sessions/{id}/next", h.handleNext)
	h.mux.HandleFunc("POST /v1/sessions/{id}/quit", h.handleQuit)
	h.mux.HandleFunc("GET /v1/sessions/{id}/play", h.handlePlay)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type sessionResponse struct {
	ID       string    `json:"id"`
	Accepted *bool     `json:"accepted,omitempty"`
	View     quiz.View `json:"view"`
}

type corpusResponse struct {
	TranslationLanguage string `json:"translation_language"`
	Surahs              int    `json:"surahs"`
	Items               int    `json:"items"`
}

type historyResponse struct {
	Entries []quiz.Outcome `json:"entries"`
}

type startRequest struct {
	Mode quiz.Mode `json:"mode"`
}

type answerRequest struct {
	ChoiceID string `json:"choice_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.ready.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) handleCorpus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, corpusResponse{
		TranslationLanguage: h.corpus.TranslationLanguage().String(),
		Surahs:              len(h.corpus.Surahs()),
		Items:               h.corpus.Len(),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, historyResponse{Entries: []quiz.Outcome{}})
		return
	}

	entries, err := h.history.Entries(r.Context())
	if err != nil {
		slog.Error("failed to read history", "error", err)
		writeError(w, http.StatusInternalServerError, "could not read history")
		return
	}
	if entries == nil {
		entries = []quiz.Outcome{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	id, v, err := h.sessions.Start(req.Mode)
	if err != nil {
		slog.Error("failed to start session", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, View: v})
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	v, err := h.sessions.View(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: v})
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.PathValue("id")); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := r.PathValue("id")
	v, accepted, err := h.sessions.Submit(r.Context(), id, req.ChoiceID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, Accepted: &accepted, View: v})
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, h.sessions.Advance)
}

func (h *Handler) handleQuit(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, h.sessions.Quit)
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request, action func(string) (quiz.View, bool, error)) {
	id := r.PathValue("id")
	v, accepted, err := action(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, Accepted: &accepted, View: v})
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, play.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	slog.Error("session action failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
