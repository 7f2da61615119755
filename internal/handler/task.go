package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/service"
)

// TaskHandler handles task HTTP requests.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskRequest struct {
	ID          int64  `json:"id"`
	SubjectID   int64  `json:"subjectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     int64  `json:"dueDate"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

type taskResponse struct {
	ID            int64  `json:"id"`
	SubjectID     int64  `json:"subjectId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DueDate       int64  `json:"dueDate"`
	Priority      int    `json:"priority"`
	PriorityTitle string `json:"priorityTitle"`
	PriorityColor string `json:"priorityColor"`
	SubjectName   string `json:"subjectName"`
	Complete      bool   `json:"complete"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:            t.ID,
		SubjectID:     t.SubjectID,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate,
		Priority:      int(t.Priority),
		PriorityTitle: t.Priority.Title(),
		PriorityColor: domain.PriorityColors[t.Priority],
		SubjectName:   t.SubjectName,
		Complete:      t.Complete,
	}
}

func toTaskResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

// HandleList returns all upcoming tasks in display order.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.Upcoming(r.Context())
	if err != nil {
		slog.Error("list upcoming tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

// HandleSave creates or updates a task.
func (h *TaskHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task := &domain.Task{
		ID:          req.ID,
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    domain.PriorityFromInt(req.Priority),
		Complete:    req.Complete,
	}
	if err := h.tasks.Save(r.Context(), task); err != nil {
		if errors.Is(err, domain.ErrNoSubject) {
			writeError(w, http.StatusUnprocessableEntity, "please select a subject related to task")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		slog.Error("save task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, toTaskResponse(task))
}

// HandleGet returns a task by id.
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		slog.Error("get task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleToggle flips a task's completion flag.
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.tasks.ToggleComplete(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		slog.Error("toggle task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	message := "task saved in upcoming tasks"
	if task.Complete {
		message = "task saved in completed tasks"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task":    toTaskResponse(task),
		"message": message,
	})
}

// HandleDelete removes a task. A missing task degrades to an informational
// message.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, "no task to delete")
			return
		}
		slog.Error("delete task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeMessage(w, "task deleted successfully")
}
