// Package httpapi exposes the interview engine over a JSON HTTP API.
// Routes follow a conventional REST layout under /api.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
	"github.com/custodia-labs/intervo/internal/logger"
)

// maxBodyBytes caps request body size; guide trees are small documents.
const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	guides   driving.GuideService
	sessions driving.SessionService
	chat     driving.ChatService
	server   *http.Server
}

// NewServer creates an HTTP API server on addr. chat may be nil when no
// LLM is configured; the chat route then reports the capability missing.
func NewServer(addr string, guides driving.GuideService, sessions driving.SessionService, chat driving.ChatService) *Server {
	s := &Server{
		guides:   guides,
		sessions: sessions,
		chat:     chat,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/guides", s.handleCreateGuide)
	mux.HandleFunc("GET /api/guides", s.handleListGuides)
	mux.HandleFunc("GET /api/guides/{id}", s.handleGetGuide)
	mux.HandleFunc("GET /api/guides/{id}/versions", s.handleListVersions)
	mux.HandleFunc("POST /api/guides/{id}/versions/{version}/activate", s.handleActivateVersion)
	mux.HandleFunc("POST /api/sessions", s.handleStartSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/answer", s.handleSubmitAnswer)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           requestLogging(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe runs the server until it fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("HTTP API listening on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

type createGuideRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

func (s *Server) handleCreateGuide(w http.ResponseWriter, r *http.Request) {
	var req createGuideRequest
	if !decodeBody(w, r, &req) {
		return
	}

	guide, err := s.guides.CreateOrUpdate(r.Context(), req.Title, req.Description, req.Questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, guide)
}

func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := s.guides.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if guides == nil {
		guides = []domain.Guide{}
	}
	writeJSON(w, http.StatusOK, guides)
}

type guideResponse struct {
	Guide         *domain.Guide        `json:"guide"`
	ActiveVersion *domain.GuideVersion `json:"activeVersion"`
}

func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	guide, version, err := s.guides.ActiveGuide(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guideResponse{Guide: guide, ActiveVersion: version})
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.guides.ListVersions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if versions == nil {
		versions = []domain.GuideVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleActivateVersion(w http.ResponseWriter, r *http.Request) {
	var version int
	if _, err := fmt.Sscanf(r.PathValue("version"), "%d", &version); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "version must be a number")
		return
	}

	guide, active, err := s.guides.Activate(r.Context(), r.PathValue("id"), version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guideResponse{Guide: guide, ActiveVersion: active})
}

type startSessionRequest struct {
	GuideID string `json:"guideId"`
}

type sessionResponse struct {
	Session         *domain.Session  `json:"session"`
	CurrentQuestion *domain.Question `json:"currentQuestion"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GuideID == "" {
		writeErrorMessage(w, http.StatusBadRequest, `the "guideId" field is required`)
		return
	}

	session, question, err := s.sessions.Start(r.Context(), req.GuideID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Session: session, CurrentQuestion: question})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, question, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: session, CurrentQuestion: question})
}

type submitAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.QuestionID == "" {
		writeErrorMessage(w, http.StatusBadRequest, `the "questionId" field is required`)
		return
	}

	result, err := s.sessions.SubmitAnswer(r.Context(), r.PathValue("id"), req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	History  []domain.ChatTurn `json:"history"`
	Question string            `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeError(w, domain.ErrLLMUnavailable)
		return
	}

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Question == "" {
		writeErrorMessage(w, http.StatusBadRequest, `the "question" field is required`)
		return
	}

	answer, err := s.chat.Send(r.Context(), req.History, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON request body into dst, writing a 400 and
// returning false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response: %v", err)
	}
}
