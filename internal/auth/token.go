package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// legacyPrefix is the unsigned token format the first version of the
// platform shipped with: "mock-jwt-token-{userId}-{epochMillis}". It is not
// a security boundary and is only honored when legacy mode is enabled.
const legacyPrefix = "mock-jwt-token-"

const tokenIssuer = "digital-examination-system"

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies session tokens. The default format is a
// signed HS256 JWT carrying the subject user id and role; legacy mode keeps
// the old unsigned format for clients that still depend on it.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	legacy bool
}

func NewTokenManager(secret string, ttl time.Duration, legacy bool) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, legacy: legacy}
}

func (m *TokenManager) Issue(userID int, role string) (string, error) {
	if m.legacy {
		return fmt.Sprintf("%s%d-%d", legacyPrefix, userID, time.Now().UnixMilli()), nil
	}

	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(userID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates token and returns the subject user id. Legacy tokens are
// accepted only when legacy mode is on; everything else must be a valid
// signed JWT from this issuer.
func (m *TokenManager) Parse(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrInvalidToken
	}

	if strings.HasPrefix(token, legacyPrefix) {
		if !m.legacy {
			return 0, ErrInvalidToken
		}
		return parseLegacySubject(token)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func parseLegacySubject(token string) (int, error) {
	rest := strings.TrimPrefix(token, legacyPrefix)
	// The legacy format appends "-{epochMillis}" after the user id.
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	userID, err := strconv.Atoi(rest)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
