package exam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/SoressaKumela/Digital-Examination-System/internal/auth"
	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

func newTestRouter(t *testing.T, st *store.MemoryStore, policy string) chi.Router {
	t.Helper()
	h := NewHandler(NewService(st, policy))

	r := chi.NewRouter()
	r.Get("/api/student/dashboard", h.StudentDashboard)
	r.Get("/api/student/exam/{id}", h.ExamDetail)
	r.Get("/api/student/exam/{id}/questions", h.ExamQuestions)
	r.Post("/api/student/exam/{id}/submit", h.Submit)
	r.Get("/api/student/results/{id}", h.ResultDetail)
	return r
}

func asUser(req *http.Request, user *store.User) *http.Request {
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func TestSubmitEndpoint(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	router := newTestRouter(t, st, PolicyAccumulate)

	req := httptest.NewRequest(http.MethodPost, "/api/student/exam/10/submit",
		strings.NewReader(`{"answers":{"1":0,"2":2}}`))
	req = asUser(req, &store.User{UserID: 1, Role: store.RoleStudent})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var result store.ExamResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Score != 5 || result.TotalMarks != 8 || result.Percentage != 62 {
		t.Fatalf("result = %d/%d (%d%%), want 5/8 (62%%)", result.Score, result.TotalMarks, result.Percentage)
	}
}

func TestSubmitEndpointMalformedBody(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	router := newTestRouter(t, st, PolicyAccumulate)

	req := httptest.NewRequest(http.MethodPost, "/api/student/exam/10/submit", strings.NewReader("{broken"))
	req = asUser(req, &store.User{UserID: 1, Role: store.RoleStudent})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitEndpointRejectPolicy(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	router := newTestRouter(t, st, PolicyReject)

	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/student/exam/10/submit",
			strings.NewReader(`{"answers":{"1":0}}`))
		req = asUser(req, &store.User{UserID: 1, Role: store.RoleStudent})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := submit(); rec.Code != http.StatusOK {
		t.Fatalf("first submit status = %d, want 200", rec.Code)
	}
	if rec := submit(); rec.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d, want 409", rec.Code)
	}
}

func TestExamQuestionsEndpointHidesAnswers(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	router := newTestRouter(t, st, PolicyAccumulate)

	req := httptest.NewRequest(http.MethodGet, "/api/student/exam/10/questions", nil)
	req = asUser(req, &store.User{UserID: 1, Role: store.RoleStudent})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var questions []store.Question
	if err := json.NewDecoder(rec.Body).Decode(&questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, q := range questions {
		if q.CorrectAnswer != store.HiddenAnswer {
			t.Fatalf("question %d leaked correctAnswer %d", q.QuestionID, q.CorrectAnswer)
		}
	}
}

func TestExamDetailEndpointNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(t, st, PolicyAccumulate)

	req := httptest.NewRequest(http.MethodGet, "/api/student/exam/999", nil)
	req = asUser(req, &store.User{UserID: 1, Role: store.RoleStudent})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestResultDetailOwnership(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	ctx := context.Background()
	if err := st.InsertResult(ctx, store.ExamResult{ResultID: 1, ExamID: 10, StudentID: 1, Score: 5}); err != nil {
		t.Fatalf("seed result: %v", err)
	}
	router := newTestRouter(t, st, PolicyAccumulate)

	tests := []struct {
		name string
		user *store.User
		want int
	}{
		{name: "owner reads own result", user: &store.User{UserID: 1, Role: store.RoleStudent}, want: http.StatusOK},
		{name: "other student forbidden", user: &store.User{UserID: 2, Role: store.RoleStudent}, want: http.StatusForbidden},
		{name: "teacher may read any result", user: &store.User{UserID: 3, Role: store.RoleTeacher}, want: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/student/results/1", nil)
			req = asUser(req, tc.user)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
