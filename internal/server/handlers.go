package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/skanderbz/tutord/internal/session"
)

const maxBodyBytes = 1 << 20

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Question string `json:"question"`
}

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// AnswerResponse is returned by /query and /chat.
type AnswerResponse struct {
	Response  string `json:"response"`
	Emotion   string `json:"emotion"`
	SessionID string `json:"session_id,omitempty"`
}

// SessionsResponse is returned by GET /sessions.
type SessionsResponse struct {
	ActiveSessions []session.Info `json:"active_sessions"`
	Count          int            `json:"count"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AI Tutor API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleQuery answers a one-shot question with no conversation memory.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateBody(querySchema, body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	reply := s.orch.Query(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, AnswerResponse{
		Response: reply.Text,
		Emotion:  string(reply.Emotion),
	})
}

// handleChat answers inside a session, creating one when the body carries
// no session_id.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateBody(chatSchema, body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	reply := s.orch.Chat(r.Context(), req.Message, req.SessionID)
	writeJSON(w, http.StatusOK, AnswerResponse{
		Response:  reply.Text,
		Emotion:   string(reply.Emotion),
		SessionID: reply.SessionID,
	})
}

// handleClearSession drops a conversation. Clearing an unknown session is
// a success; the end state is the same.
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session_id")
		return
	}
	s.orch.ClearSession(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "session cleared", "session_id": id})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	infos := s.orch.Sessions()
	writeJSON(w, http.StatusOK, SessionsResponse{ActiveSessions: infos, Count: len(infos)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Stats())
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
