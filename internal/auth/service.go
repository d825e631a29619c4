package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// Service handles login and account registration against the user store.
type Service struct {
	store  store.Store
	tokens *TokenManager
}

func NewService(st store.Store, tokens *TokenManager) *Service {
	return &Service{store: st, tokens: tokens}
}

type LoginResult struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !checkPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	user.Password = ""
	return &LoginResult{Token: token, User: *user}, nil
}

// checkPassword compares against a stored bcrypt hash. A stored value that
// is not a bcrypt hash never matches.
func checkPassword(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return false
}

type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*store.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: fullName, email and password are required", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = store.RoleStudent
	}
	if !store.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	if _, err := s.store.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		FullName:  in.FullName,
		Email:     in.Email,
		Password:  string(hash),
		Role:      in.Role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	id, err := store.CreateWithID(ctx, s.store, store.CollectionUsers, func(id int) error {
		user.UserID = id
		return s.store.InsertUser(ctx, *user)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.UserID = id
	user.Password = ""
	return user, nil
}
