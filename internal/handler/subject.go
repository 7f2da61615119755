package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/service"
)

// SubjectHandler handles subject HTTP requests.
type SubjectHandler struct {
	subjects *service.SubjectService
	tasks    *service.TaskService
	sessions *service.SessionService
	stats    *service.StatsService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService, tasks *service.TaskService, sessions *service.SessionService, stats *service.StatsService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, tasks: tasks, sessions: sessions, stats: stats}
}

type subjectRequest struct {
	Name      string  `json:"name"`
	GoalHours string  `json:"goalHours"`
	Colors    []int64 `json:"colors"`
}

type subjectResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	GoalHours float64 `json:"goalHours"`
	Colors    []int64 `json:"colors"`
}

func toSubjectResponse(s *domain.Subject) subjectResponse {
	return subjectResponse{ID: s.ID, Name: s.Name, GoalHours: s.GoalHours, Colors: s.Colors}
}

// HandleList returns all subjects.
func (h *SubjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjects.List(r.Context())
	if err != nil {
		slog.Error("list subjects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]subjectResponse, 0, len(subjects))
	for i := range subjects {
		out = append(out, toSubjectResponse(&subjects[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate creates a new subject. Goal hours arrive as raw input text;
// unparsable values fall back to 1.
func (h *SubjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subject, err := h.subjects.Save(r.Context(), 0, req.Name, service.ParseGoalHours(req.GoalHours), req.Colors)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toSubjectResponse(subject))
}

// HandleGet returns a subject together with its study progress.
func (h *SubjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	subject, err := h.subjects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		slog.Error("get subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	stats, err := h.stats.ForSubject(r.Context(), id)
	if err != nil {
		slog.Error("subject stats", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"subject": toSubjectResponse(subject),
		"stats":   stats,
	})
}

// HandleUpdate upserts an existing subject.
func (h *SubjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req subjectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subject, err := h.subjects.Save(r.Context(), id, req.Name, service.ParseGoalHours(req.GoalHours), req.Colors)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("update subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toSubjectResponse(subject))
}

// HandleDelete cascade-deletes a subject with its tasks and sessions. A
// missing subject degrades to an informational message.
func (h *SubjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.subjects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, "no subject to delete")
			return
		}
		slog.Error("delete subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeMessage(w, "subject deleted successfully")
}

// HandleTasks returns a subject's upcoming and completed tasks.
func (h *SubjectHandler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	upcoming, err := h.tasks.UpcomingForSubject(r.Context(), id)
	if err != nil {
		slog.Error("upcoming tasks for subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	completed, err := h.tasks.CompletedForSubject(r.Context(), id)
	if err != nil {
		slog.Error("completed tasks for subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"upcoming":  toTaskResponses(upcoming),
		"completed": toTaskResponses(completed),
	})
}

// HandleSessions returns a subject's ten most recent sessions.
func (h *SubjectHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sessions, err := h.sessions.RecentForSubject(r.Context(), id)
	if err != nil {
		slog.Error("recent sessions for subject", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponses(sessions))
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
