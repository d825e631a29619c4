package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SoressaKumela/Digital-Examination-System/internal/app/apiresp"
	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// Handler exposes the public authentication endpoints and the request
// guards the rest of the API mounts behind.
type Handler struct {
	svc    *Service
	tokens *TokenManager
	users  store.UserStore
}

func NewHandler(svc *Service, tokens *TokenManager, users store.UserStore) *Handler {
	return &Handler{svc: svc, tokens: tokens, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			apiresp.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	apiresp.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			apiresp.WriteError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	apiresp.WriteJSON(w, http.StatusCreated, user)
}

// RequireAuth resolves the Bearer token to an account and stores it on the
// request context. CORS preflight requests pass through unchecked.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := h.tokens.Parse(bearerToken(r))
		if err != nil {
			apiresp.WriteError(w, http.StatusUnauthorized, "Unauthorized access")
			return
		}

		user, err := h.users.FindUserByID(r.Context(), userID)
		if err != nil {
			apiresp.WriteError(w, http.StatusUnauthorized, "Unauthorized access")
			return
		}
		user.Password = ""

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				apiresp.WriteError(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}
			if _, exists := allowed[user.Role]; !exists {
				apiresp.WriteError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CurrentUser(ctx context.Context) (*store.User, bool) {
	u, ok := ctx.Value(userContextKey).(*store.User)
	return u, ok
}

// ContextWithUser injects an authenticated user into context.
// Useful for tests and internal handlers.
func ContextWithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AdminHandler exposes the administrator account endpoints.
type AdminHandler struct {
	svc *AdminService
}

func NewAdminHandler(svc *AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			apiresp.WriteError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrEmailTaken):
			apiresp.WriteError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	apiresp.WriteJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		apiresp.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiresp.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportUsersExcel(r.Context())
	if err != nil {
		apiresp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="users.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
