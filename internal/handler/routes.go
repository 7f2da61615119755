package handler

import (
	"net/http"

	"github.com/hasheddev/studytrack/internal/service"
	"github.com/hasheddev/studytrack/internal/timer"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	subjects *service.SubjectService,
	tasks *service.TaskService,
	sessions *service.SessionService,
	stats *service.StatsService,
	t *timer.Timer,
) {
	subjectHandler := NewSubjectHandler(subjects, tasks, sessions, stats)
	taskHandler := NewTaskHandler(tasks)
	sessionHandler := NewSessionHandler(sessions)
	timerHandler := NewTimerHandler(t, subjects, sessions)
	dashboardHandler := NewDashboardHandler(stats, tasks, sessions, subjects)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("GET /dashboard", dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /dashboard/stream", dashboardHandler.HandleStream)

	mux.HandleFunc("GET /subjects", subjectHandler.HandleList)
	mux.HandleFunc("POST /subjects", subjectHandler.HandleCreate)
	mux.HandleFunc("GET /subjects/{id}", subjectHandler.HandleGet)
	mux.HandleFunc("PUT /subjects/{id}", subjectHandler.HandleUpdate)
	mux.HandleFunc("DELETE /subjects/{id}", subjectHandler.HandleDelete)
	mux.HandleFunc("GET /subjects/{id}/tasks", subjectHandler.HandleTasks)
	mux.HandleFunc("GET /subjects/{id}/sessions", subjectHandler.HandleSessions)

	mux.HandleFunc("GET /tasks", taskHandler.HandleList)
	mux.HandleFunc("POST /tasks", taskHandler.HandleSave)
	mux.HandleFunc("GET /tasks/{id}", taskHandler.HandleGet)
	mux.HandleFunc("POST /tasks/{id}/toggle", taskHandler.HandleToggle)
	mux.HandleFunc("DELETE /tasks/{id}", taskHandler.HandleDelete)

	mux.HandleFunc("GET /sessions", sessionHandler.HandleList)
	mux.HandleFunc("DELETE /sessions/{id}", sessionHandler.HandleDelete)

	mux.HandleFunc("GET /timer", timerHandler.HandleSnapshot)
	mux.HandleFunc("GET /timer/stream", timerHandler.HandleStream)
	mux.HandleFunc("POST /timer/start", timerHandler.HandleStart)
	mux.HandleFunc("POST /timer/stop", timerHandler.HandleStop)
	mux.HandleFunc("POST /timer/cancel", timerHandler.HandleCancel)
	mux.HandleFunc("POST /timer/finish", timerHandler.HandleFinish)
	mux.HandleFunc("POST /timer/subject", timerHandler.HandleSetSubject)
}
