package report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SoressaKumela/Digital-Examination-System/internal/app/apiresp"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	examID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || examID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	summary, err := h.svc.SummaryByExam(r.Context(), examID)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "Exam not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, summary)
}
