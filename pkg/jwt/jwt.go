package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the JWT payload carried by access and refresh tokens
type Claims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username,omitempty"`
	// TokenType distinguishes access from refresh tokens so a refresh
	// token can not be replayed as an access token.
	TokenType string `json:"token_type"`
}

// Manager issues and verifies HMAC-signed JWT tokens
type Manager struct {
	secretKey        []byte
	accessExpiresIn  time.Duration
	refreshExpiresIn time.Duration
}

// NewManager creates a Manager. Expiry values are in minutes.
func NewManager(secret string, accessExpiresMin, refreshExpiresMin int) *Manager {
	return &Manager{
		secretKey:        []byte(secret),
		accessExpiresIn:  time.Duration(accessExpiresMin) * time.Minute,
		refreshExpiresIn: time.Duration(refreshExpiresMin) * time.Minute,
	}
}

// GenerateAccessToken issues a short-lived access token
func (m *Manager) GenerateAccessToken(userID uint, username string) (string, error) {
	return m.generate(userID, username, "access", m.accessExpiresIn)
}

// GenerateRefreshToken issues a long-lived refresh token
func (m *Manager) GenerateRefreshToken(userID uint) (string, error) {
	return m.generate(userID, "", "refresh", m.refreshExpiresIn)
}

func (m *Manager) generate(userID uint, username, tokenType string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken validates a token string and returns its claims
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyAccessToken validates an access token specifically. A
// refresh token presented as a Bearer credential is rejected.
func (m *Manager) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken validates a refresh token specifically
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
