package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/Freeeeeet/timetable_bot/internal/source"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTable() *source.Table {
	return &source.Table{
		Header: []string{"Course Name/Group Name", "Instructor", "Time", "Venue", "Time.1", "Venue.1"},
		Records: [][]string{
			{"Fluid Mechanics (CE612)", "Dr. Rao", "M (L11) W (L11) 09:00-10:00", "", "", ""},
			{"CS101 - Intro to Programming", "Dr. Das", "M 09:30-10:30", "L1", "Th 14:00-15:00", "L2"},
			{"Linear Algebra (MA201)", "Dr. Roy", "F 11:00-12:00", "L5", "12:00-13:00", ""},
		},
	}
}

func newTestServer(t *testing.T, imported bool) *Server {
	t.Helper()

	logger := zap.NewNop()
	store := service.NewMemoryStore()
	svc := service.NewTimetableService(store, store, timetable.Options{}, logger)
	if imported {
		_, err := svc.ImportTable(context.Background(), "test.csv", testTable())
		require.NoError(t, err)
	}

	return NewServer(&Options{
		DisableReqLogs: true,
		Service:        svc,
		Logger:         logger,
	})
}

func doGet(t *testing.T, s *Server, target string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") != "" && rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestCourses(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCount float64
	}{
		{name: "all courses", target: "/v1/courses", wantCode: http.StatusOK, wantCount: 3},
		{name: "case-insensitive query", target: "/v1/courses?q=ALGEBRA", wantCode: http.StatusOK, wantCount: 1},
		{name: "limit", target: "/v1/courses?limit=2", wantCode: http.StatusOK, wantCount: 2},
		{name: "no match", target: "/v1/courses?q=quantum", wantCode: http.StatusOK, wantCount: 0},
		{name: "trailing slash", target: "/v1/courses/", wantCode: http.StatusOK, wantCount: 3},
		{name: "invalid limit", target: "/v1/courses?limit=abc", wantCode: http.StatusBadRequest},
		{name: "limit out of range", target: "/v1/courses?limit=1000", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doGet(t, s, tt.target)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantCount, body["count"])
			}
		})
	}
}

func TestMeetings(t *testing.T) {
	s := newTestServer(t, true)

	code, body := doGet(t, s, "/v1/meetings?codes=CE612,MA201")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["count"])

	code, body = doGet(t, s, "/v1/meetings?codes=CE612&codes=CS%20101")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(4), body["count"])

	code, body = doGet(t, s, "/v1/meetings")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"codes": "is required"}, body["fields"])

	code, _ = doGet(t, s, "/v1/meetings?codes=A1,A2,A3,A4,A5,A6,A7")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = doGet(t, s, "/v1/meetings?codes=ce612,CE612,Ce612,cE612,ce612,CE612,ce612")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
}

func TestLookup(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantKind string
		wantText string
	}{
		{
			name:     "single",
			target:   "/v1/lookup?codes=CE612,MA201&day=Mon&start=09:00&end=09:15",
			wantCode: http.StatusOK,
			wantKind: "single",
			wantText: "CE612 - Fluid Mechanics\n@ L11",
		},
		{
			name:     "conflict",
			target:   "/v1/lookup?codes=CE612,CS101&day=Mon&start=09:45&end=10:00",
			wantCode: http.StatusOK,
			wantKind: "conflict",
			wantText: "CONFLICT: CE612 - Fluid Mechanics, CS101 - Intro to Programming",
		},
		{
			name:     "lowercase code",
			target:   "/v1/lookup?codes=ce612&day=Mon&start=09:00&end=09:15",
			wantCode: http.StatusOK,
			wantKind: "single",
			wantText: "CE612 - Fluid Mechanics\n@ L11",
		},
		{
			name:     "lowercase codes conflict",
			target:   "/v1/lookup?codes=ce612,cs101&day=Mon&start=09:45&end=10:00",
			wantCode: http.StatusOK,
			wantKind: "conflict",
			wantText: "CONFLICT: CE612 - Fluid Mechanics, CS101 - Intro to Programming",
		},
		{
			name:     "empty",
			target:   "/v1/lookup?codes=CE612&day=Tue&start=09:00&end=09:15",
			wantCode: http.StatusOK,
			wantKind: "empty",
		},
		{name: "bad day", target: "/v1/lookup?codes=CE612&day=Sun&start=09:00&end=09:15", wantCode: http.StatusBadRequest},
		{name: "bad time", target: "/v1/lookup?codes=CE612&day=Mon&start=9am&end=09:15", wantCode: http.StatusBadRequest},
		{name: "hour out of range", target: "/v1/lookup?codes=CE612&day=Mon&start=25:00&end=26:00", wantCode: http.StatusBadRequest},
		{name: "inverted range", target: "/v1/lookup?codes=CE612&day=Mon&start=10:00&end=09:00", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doGet(t, s, tt.target)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantKind, body["kind"])
				assert.Equal(t, tt.wantText, body["text"])
			}
		})
	}
}

func TestGrid(t *testing.T) {
	s := newTestServer(t, true)

	code, body := doGet(t, s, "/v1/grid?codes=CE612,CS101")
	require.Equal(t, http.StatusOK, code)

	days, ok := body["days"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Mon", "Tue", "Wed", "Thu", "Fri"}, days)

	rows, ok := body["rows"].([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 47)
}

func TestConflicts(t *testing.T) {
	s := newTestServer(t, true)

	code, body := doGet(t, s, "/v1/conflicts?codes=CE612,CS101")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	conflicts := body["conflicts"].([]interface{})
	first := conflicts[0].(map[string]interface{})
	assert.Equal(t, "Mon", first["day"])
	assert.Equal(t, "09:30", first["start"])
	assert.Equal(t, "10:00", first["end"])

	code, body = doGet(t, s, "/v1/conflicts?codes=ce612,cs%20101")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = doGet(t, s, "/v1/conflicts?codes=CE612,MA201")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []interface{}{}, body["conflicts"])
}

func TestIssues(t *testing.T) {
	code, body := doGet(t, newTestServer(t, false), "/v1/issues")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, service.ErrNoTimetable.Error(), body["error"])

	code, body = doGet(t, newTestServer(t, true), "/v1/issues")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	issue := body["issues"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "no_days", issue["kind"])
	assert.Equal(t, float64(4), issue["row"])

	run := body["run"].(map[string]interface{})
	assert.Equal(t, "test.csv", run["source"])
}

func TestHome(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	newTestServer(t, false).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course timetable API", rec.Body.String())
}
