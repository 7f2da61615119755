package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/service"
	"github.com/hasheddev/studytrack/internal/timer"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// TimerHandler exposes the single process-wide study timer: discrete
// actions plus a live SSE stream of its state.
type TimerHandler struct {
	timer    *timer.Timer
	subjects *service.SubjectService
	sessions *service.SessionService
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(t *timer.Timer, subjects *service.SubjectService, sessions *service.SessionService) *TimerHandler {
	return &TimerHandler{timer: t, subjects: subjects, sessions: sessions}
}

type timerResponse struct {
	Hours       string `json:"hours"`
	Minutes     string `json:"minutes"`
	Seconds     string `json:"seconds"`
	State       string `json:"state"`
	Elapsed     int64  `json:"elapsed"`
	SubjectID   int64  `json:"subjectId,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
}

func toTimerResponse(s timer.Snapshot) timerResponse {
	return timerResponse{
		Hours:       s.Hours,
		Minutes:     s.Minutes,
		Seconds:     s.Seconds,
		State:       string(s.State),
		Elapsed:     s.Elapsed,
		SubjectID:   s.SubjectID,
		SubjectName: s.SubjectName,
	}
}

// HandleSnapshot returns the timer's current state.
func (h *TimerHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTimerResponse(h.timer.Snapshot()))
}

// HandleStart starts or resumes the timer.
func (h *TimerHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTimerResponse(h.timer.Start()))
}

// HandleStop pauses the timer, freezing the accumulated duration.
func (h *TimerHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTimerResponse(h.timer.Stop()))
}

// HandleCancel discards the in-progress session and returns to idle.
func (h *TimerHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTimerResponse(h.timer.Cancel()))
}

// HandleSetSubject associates a subject with the in-progress session. The
// subject must exist; its name is snapshotted into the timer.
func (h *TimerHandler) HandleSetSubject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID int64 `json:"subjectId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subject, err := h.subjects.GetByID(r.Context(), req.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		slog.Error("get subject for timer", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTimerResponse(h.timer.SetSubject(subject.ID, subject.Name)))
}

// HandleFinish commits the current run through the session commit
// protocol. The request may carry an explicit duration; otherwise the
// timer's accumulated value is used. The outcome is always a message, even
// when persistence fails.
func (h *TimerHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	snap := h.timer.Snapshot()
	elapsed := snap.Elapsed

	var req struct {
		Duration *int64 `json:"duration"`
	}
	if err := readOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Duration != nil {
		elapsed = *req.Duration
	}

	outcome := h.sessions.Finish(r.Context(), elapsed, snap.SubjectID, snap.SubjectName)
	writeJSON(w, http.StatusOK, toOutcomeResponse(outcome))
}

// HandleStream pushes every timer snapshot to the client as a datastar
// signal patch. The subscription replays the latest snapshot immediately,
// so a client that connects mid-session sees the current clock without
// waiting for the next tick.
func (h *TimerHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := h.timer.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			signals, err := json.Marshal(map[string]any{"timer": toTimerResponse(snap)})
			if err != nil {
				slog.Error("marshal timer signals", "error", err)
				return
			}
			if err := sse.PatchSignals(signals); err != nil {
				return
			}
		}
	}
}
