package handler

import (
	"log/slog"
	"net/http"

	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/service"
)

// SessionHandler handles committed-session HTTP requests.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionResponse struct {
	ID          int64  `json:"id"`
	SubjectID   int64  `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	StartedAt   int64  `json:"startedAt"`
	Duration    int64  `json:"duration"`
}

type outcomeResponse struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

func toSessionResponses(sessions []domain.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:          s.ID,
			SubjectID:   s.SubjectID,
			SubjectName: s.SubjectName,
			StartedAt:   s.StartedAt,
			Duration:    s.Duration,
		})
	}
	return out
}

func toOutcomeResponse(o service.Outcome) outcomeResponse {
	return outcomeResponse{OK: o.OK, Message: o.Message, Severity: string(o.Severity)}
}

// HandleList returns all committed sessions, most recent first.
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		slog.Error("list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponses(sessions))
}

// HandleDelete removes a committed session. The outcome is always a
// message: an unknown id reports "no session to delete" rather than
// failing.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	outcome := h.sessions.Delete(r.Context(), &domain.Session{ID: id})
	writeJSON(w, http.StatusOK, toOutcomeResponse(outcome))
}
