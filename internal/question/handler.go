package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SoressaKumela/Digital-Examination-System/internal/app/apiresp"
)

// Handler serves the teacher question bank endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.svc.List(r.Context())
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, questions)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Input
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			apiresp.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || questionID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var req Input
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.svc.Update(r.Context(), questionID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			apiresp.WriteError(w, http.StatusNotFound, "Question not found")
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || questionID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	if err := h.svc.Delete(r.Context(), questionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "Question not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
