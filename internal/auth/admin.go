package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

// AdminService backs the administrator account endpoints.
type AdminService struct {
	store store.Store
}

func NewAdminService(st store.Store) *AdminService {
	return &AdminService{store: st}
}

type SystemStats struct {
	TotalStudents  int `json:"totalStudents"`
	TotalTeachers  int `json:"totalTeachers"`
	TotalExams     int `json:"totalExams"`
	TotalQuestions int `json:"totalQuestions"`
}

func (s *AdminService) Stats(ctx context.Context) (*SystemStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	exams, err := s.store.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	stats := &SystemStats{TotalExams: len(exams), TotalQuestions: len(questions)}
	for _, u := range users {
		switch u.Role {
		case store.RoleStudent:
			stats.TotalStudents++
		case store.RoleTeacher:
			stats.TotalTeachers++
		}
	}
	return stats, nil
}

// ListUsers returns every account with passwords stripped.
func (s *AdminService) ListUsers(ctx context.Context) ([]store.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

type UpdateUserInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUser applies the non-empty fields of in to the account. A new
// password is re-hashed; an empty one keeps the current hash.
func (s *AdminService) UpdateUser(ctx context.Context, userID int, in UpdateUserInput) (*store.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = email
	}
	if in.Role != "" {
		if !store.ValidRole(in.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
		}
		user.Role = in.Role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.store.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int) error {
	return s.store.DeleteUser(ctx, userID)
}
