package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AccessTokenCookie = "access_token"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("JWT_SECRET is not set")
)

func ExtractAccessToken(r *http.Request) string {
	// 1️⃣ Cookie (preferred)
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	// 2️⃣ Authorization header (fallback)
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

type SessionClaims struct {
	Kind  Kind   `json:"kind"`
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HS256 tokens: session tokens for
// principals and any other short-lived signed state (checkout intents).
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue creates a session token for p and returns its expiry.
func (m *TokenManager) Issue(p Principal) (string, time.Time, error) {
	expires := m.now().Add(m.ttl)
	claims := SessionClaims{
		Kind:  p.Kind,
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(m.now()),
		},
	}
	token, err := m.Sign(claims)
	return token, expires, err
}

// Parse validates a session token and returns its principal.
func (m *TokenManager) Parse(tokenStr string) (Principal, error) {
	var claims SessionClaims
	if err := m.ParseInto(tokenStr, &claims); err != nil {
		return Principal{}, err
	}
	if claims.ID == 0 || (claims.Kind != KindCustomer && claims.Kind != KindAdmin) {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Kind: claims.Kind, ID: claims.ID, Name: claims.Name, Email: claims.Email}, nil
}

func (m *TokenManager) Sign(claims jwt.Claims) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) ParseInto(tokenStr string, claims jwt.Claims) error {
	if len(m.secret) == 0 {
		return ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
