// Package server is the HTTP adapter between the chat front-end and
// the agent core: one endpoint in, one answer out.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	agent "github.com/virtual-me/agent"
	"github.com/virtual-me/agent/model"
)

const failureReply = "Sorry, something went wrong on my end. Please try again in a moment."

// Rebuilder triggers a full index rebuild. Implemented by kb.Builder.
type Rebuilder interface {
	Build(ctx context.Context, dir string) (int, error)
}

type chatRequest struct {
	Message string `json:"message"`
	History []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type Server struct {
	agent     *agent.Agent
	rebuilder Rebuilder
	kbDir     string
	router    *mux.Router
	// rebuildMtx enforces the single-writer rebuild rule.
	rebuildMtx sync.Mutex
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if len(req.Message) == 0 {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	history := make([]model.Message, 0, len(req.History))
	for _, turn := range req.History {
		if turn.Role != model.RoleUser && turn.Role != model.RoleAssistant {
			continue
		}
		history = append(history, model.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.agent.Chat(r.Context(), req.Message, history)
	if err != nil {
		// The conversation degrades to an apology, never a crash.
		slog.ErrorContext(r.Context(), "chat failed", "error", err)
		reply = failureReply
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Reply: reply})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.rebuilder == nil {
		http.Error(w, "reindexing is not configured", http.StatusNotImplemented)
		return
	}

	if !s.rebuildMtx.TryLock() {
		http.Error(w, "rebuild already in progress", http.StatusConflict)
		return
	}
	defer s.rebuildMtx.Unlock()

	count, err := s.rebuilder.Build(r.Context(), s.kbDir)
	if err != nil {
		slog.ErrorContext(r.Context(), "reindex failed", "error", err)
		http.Error(w, "reindex failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"chunks": count})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func New(a *agent.Agent, rebuilder Rebuilder, kbDir string) *Server {
	s := &Server{
		agent:     a,
		rebuilder: rebuilder,
		kbDir:     kbDir,
	}

	router := mux.NewRouter()
	router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	router.HandleFunc("/reindex", s.handleReindex).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.router = router

	return s
}
