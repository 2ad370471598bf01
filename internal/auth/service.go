// Package auth issues and verifies the development backend's credentials.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims extends JWT standard claims with the portal user's role and name.
// Subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
	Name string     `json:"name"`
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// Service handles password hashing and JWT issuance.
type Service struct {
	secret []byte
	expiry time.Duration
	cost   int
}

// NewService creates a Service from the backend configuration.
func NewService(cfg *config.Config) *Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	return &Service{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry, cost: cost}
}

// HashPassword hashes a password with the configured bcrypt cost.
// Default cost is 6; adjustable via BCRYPT_COST env.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *Service) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a signed JWT for u.
func (s *Service) GenerateToken(u model.User) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Role: u.Role,
		Name: u.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
