package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/handler"
	"github.com/hasheddev/studytrack/internal/repository/sqlite"
	"github.com/hasheddev/studytrack/internal/service"
	"github.com/hasheddev/studytrack/internal/timer"
)

// newTestServer wires real services over a temporary database and returns
// a running server plus the timer so tests can drive it directly.
func newTestServer(t *testing.T) (*httptest.Server, *timer.Timer) {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tm := timer.New()
	t.Cleanup(tm.Close)

	changes := broadcast.New[struct{}]()
	subjects := service.NewSubjectService(db.Subjects(), db.Tasks(), db.Sessions(), changes)
	tasks := service.NewTaskService(db.Tasks(), db.Subjects(), changes)
	sessions := service.NewSessionService(db.Sessions(), tm, changes)
	stats := service.NewStatsService(db.Subjects(), db.Sessions(), changes)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, subjects, tasks, sessions, stats, tm)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, tm
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createSubject(t *testing.T, baseURL, name string) int64 {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL+"/subjects", map[string]any{
		"name":      name,
		"goalHours": "10",
		"colors":    []int64{1, 2},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create subject: expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &body)
	return body.ID
}
