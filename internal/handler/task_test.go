package handler_test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestTaskSaveRequiresSubject(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title": "orphan",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without a subject, got %d", resp.StatusCode)
	}
}

func TestTaskSaveSnapshotsSubjectName(t *testing.T) {
	srv, _ := newTestServer(t)

	id := createSubject(t, srv.URL, "Algebra")

	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"subjectId": id,
		"title":     "Finish chapter 3",
		"priority":  2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		SubjectName   string `json:"subjectName"`
		Priority      int    `json:"priority"`
		PriorityTitle string `json:"priorityTitle"`
		DueDate       int64  `json:"dueDate"`
	}
	decodeBody(t, resp, &body)
	if body.SubjectName != "Algebra" {
		t.Fatalf("expected snapshotted subject name, got %q", body.SubjectName)
	}
	if body.Priority != 2 || body.PriorityTitle != "High" {
		t.Fatalf("unexpected priority: %d %q", body.Priority, body.PriorityTitle)
	}
	if body.DueDate == 0 {
		t.Fatal("expected due date defaulted to today")
	}
}

func TestTaskToggle(t *testing.T) {
	srv, _ := newTestServer(t)

	id := createSubject(t, srv.URL, "Algebra")
	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"subjectId": id,
		"title":     "t",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &created)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/tasks/%d/toggle", srv.URL, created.ID), nil)
	var toggled struct {
		Message string `json:"message"`
		Task    struct {
			Complete bool `json:"complete"`
		} `json:"task"`
	}
	decodeBody(t, resp, &toggled)
	if !toggled.Task.Complete || toggled.Message != "task saved in completed tasks" {
		t.Fatalf("unexpected toggle result: %+v", toggled)
	}

	// Completed tasks leave the upcoming list.
	resp = doJSON(t, http.MethodGet, srv.URL+"/tasks", nil)
	var upcoming []struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &upcoming)
	if len(upcoming) != 0 {
		t.Fatalf("expected empty upcoming list, got %d tasks", len(upcoming))
	}

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/tasks/%d/toggle", srv.URL, created.ID), nil)
	decodeBody(t, resp, &toggled)
	if toggled.Task.Complete || toggled.Message != "task saved in upcoming tasks" {
		t.Fatalf("unexpected second toggle result: %+v", toggled)
	}
}

func TestTaskDeleteUnknown(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/tasks/999", nil)
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	if body.Message != "no task to delete" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestSubjectTasksSplit(t *testing.T) {
	srv, _ := newTestServer(t)

	id := createSubject(t, srv.URL, "Algebra")
	for _, title := range []string{"a", "b"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
			"subjectId": id,
			"title":     title,
		})
		resp.Body.Close()
	}

	var created []struct {
		ID int64 `json:"id"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/tasks", nil)
	decodeBody(t, resp, &created)
	if len(created) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(created))
	}

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/tasks/%d/toggle", srv.URL, created[0].ID), nil)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/subjects/%d/tasks", srv.URL, id), nil)
	var split struct {
		Upcoming  []any `json:"upcoming"`
		Completed []any `json:"completed"`
	}
	decodeBody(t, resp, &split)
	if len(split.Upcoming) != 1 || len(split.Completed) != 1 {
		t.Fatalf("expected 1 upcoming and 1 completed, got %d and %d",
			len(split.Upcoming), len(split.Completed))
	}
}
