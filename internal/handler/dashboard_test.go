package handler_test

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	createSubject(t, srv.URL, "Algebra")
	createSubject(t, srv.URL, "Biology")

	resp := doJSON(t, http.MethodGet, srv.URL+"/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Stats struct {
			SubjectCount      int     `json:"subjectCount"`
			TotalGoalHours    float64 `json:"totalGoalHours"`
			TotalHoursStudied float64 `json:"totalHoursStudied"`
		} `json:"stats"`
		Subjects       []any `json:"subjects"`
		UpcomingTasks  []any `json:"upcomingTasks"`
		RecentSessions []any `json:"recentSessions"`
	}
	decodeBody(t, resp, &body)

	if body.Stats.SubjectCount != 2 || body.Stats.TotalGoalHours != 20 {
		t.Fatalf("unexpected stats: %+v", body.Stats)
	}
	if len(body.Subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(body.Subjects))
	}
	if len(body.UpcomingTasks) != 0 || len(body.RecentSessions) != 0 {
		t.Fatalf("expected empty lists, got %d tasks and %d sessions",
			len(body.UpcomingTasks), len(body.RecentSessions))
	}
}

func TestTimerStreamReplaysSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/timer/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /timer/stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	// The subscription replays the latest snapshot, so the first patch
	// arrives without any timer activity.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, `"timer"`) {
			if !strings.Contains(line, `"state":"idle"`) {
				t.Fatalf("unexpected initial patch: %s", line)
			}
			return
		}
	}
	t.Fatalf("no timer patch received: %v", scanner.Err())
}
