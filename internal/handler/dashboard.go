package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hasheddev/studytrack/internal/service"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// DashboardHandler serves the aggregated dashboard view: totals across all
// subjects, upcoming tasks and recent sessions.
type DashboardHandler struct {
	stats    *service.StatsService
	tasks    *service.TaskService
	sessions *service.SessionService
	subjects *service.SubjectService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(stats *service.StatsService, tasks *service.TaskService, sessions *service.SessionService, subjects *service.SubjectService) *DashboardHandler {
	return &DashboardHandler{stats: stats, tasks: tasks, sessions: sessions, subjects: subjects}
}

// HandleDashboard returns the dashboard aggregates with the lists shown
// alongside them.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Refresh(r.Context())
	if err != nil {
		slog.Error("dashboard stats", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	subjects, err := h.subjects.List(r.Context())
	if err != nil {
		slog.Error("dashboard subjects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	tasks, err := h.tasks.Upcoming(r.Context())
	if err != nil {
		slog.Error("dashboard tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	recent, err := h.sessions.Recent(r.Context())
	if err != nil {
		slog.Error("dashboard sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	subjectsOut := make([]subjectResponse, 0, len(subjects))
	for i := range subjects {
		subjectsOut = append(subjectsOut, toSubjectResponse(&subjects[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":          stats,
		"subjects":       subjectsOut,
		"upcomingTasks":  toTaskResponses(tasks),
		"recentSessions": toSessionResponses(recent),
	})
}

// HandleStream pushes recomputed dashboard stats to the client as datastar
// signal patches whenever persisted data changes.
func (h *DashboardHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := h.stats.Updates()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case stats, ok := <-ch:
			if !ok {
				return
			}
			signals, err := json.Marshal(map[string]any{"stats": stats})
			if err != nil {
				slog.Error("marshal stats signals", "error", err)
				return
			}
			if err := sse.PatchSignals(signals); err != nil {
				return
			}
		}
	}
}
