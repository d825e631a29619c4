package exam

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SoressaKumela/Digital-Examination-System/internal/app/apiresp"
	"github.com/SoressaKumela/Digital-Examination-System/internal/auth"
	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

// Handler serves the student-facing exam session endpoints and the teacher
// exam management endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, http.StatusUnauthorized, "Unauthorized access")
		return
	}

	dash, err := h.svc.DashboardForStudent(r.Context(), user.UserID)
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) ExamDetail(w http.ResponseWriter, r *http.Request) {
	examID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || examID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	exam, err := h.svc.ExamByID(r.Context(), examID)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "Exam not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, exam)
}

func (h *Handler) ExamQuestions(w http.ResponseWriter, r *http.Request) {
	examID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || examID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	questions, err := h.svc.QuestionsForExam(r.Context(), examID)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "Exam not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, questions)
}

type submitRequest struct {
	Answers map[int]int `json:"answers"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, http.StatusUnauthorized, "Unauthorized access")
		return
	}

	examID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || examID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Submit(r.Context(), user.UserID, examID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrExamNotFound):
			apiresp.WriteError(w, http.StatusNotFound, "Exam not found")
		case errors.Is(err, ErrAlreadyTaken):
			apiresp.WriteError(w, http.StatusConflict, "Exam already submitted")
		default:
			apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ResultDetail(w http.ResponseWriter, r *http.Request) {
	resultID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || resultID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid result id")
		return
	}

	result, err := h.svc.ResultByID(r.Context(), resultID)
	if err != nil {
		if errors.Is(err, ErrResultNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "Result not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// A student may only read their own result.
	if user, ok := auth.CurrentUser(r.Context()); ok && user.Role == store.RoleStudent && result.StudentID != user.UserID {
		apiresp.WriteError(w, http.StatusForbidden, "Forbidden")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) TeacherDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.DashboardForTeacher(r.Context())
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) CreateExam(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, http.StatusUnauthorized, "Unauthorized access")
		return
	}

	var req CreateExamInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exam, err := h.svc.CreateExam(r.Context(), req, user.FullName)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			apiresp.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusCreated, exam)
}

func (h *Handler) ExamResults(w http.ResponseWriter, r *http.Request) {
	examID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || examID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	results, err := h.svc.ResultsByExam(r.Context(), examID)
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) ExportExamResults(w http.ResponseWriter, r *http.Request) {
	examID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || examID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	data, err := h.svc.ExportResultsExcel(r.Context(), examID)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "Exam not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="exam-%d-results.xlsx"`, examID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
