// Package auth issues and validates the signed, time-bound credentials that
// gate the protected API surface. Validity is fully determined by the
// signature and expiry; there is no server-side session store and no
// revocation list.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// Token is the issued credential envelope.
type Token struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// Config holds the signing settings, immutable after construction.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// Service mints and verifies HS256 credentials backed by the authentication
// table.
type Service struct {
	users  UserStore
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

// New creates the token service. The authentication table stores passwords
// in plain text, so the lookup is a plain equality check; this mirrors the
// upstream dataset and is a known defect, warned about at startup.
func New(users UserStore, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Warn("authentication table uses plaintext password comparison")
	return &Service{users: users, cfg: cfg, now: time.Now, logger: logger}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login validates the credentials and mints a token.
func (s *Service) Login(username, password string) (Token, error) {
	if s.users == nil {
		return Token{}, fmt.Errorf("authentication is %w", domain.ErrNotConfigured)
	}

	ok, err := s.users.Authenticate(username, password)
	if err != nil {
		return Token{}, fmt.Errorf("authenticate user: %w", err)
	}
	if !ok {
		return Token{}, domain.ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		Issuer:    s.cfg.Issuer,
		Audience:  jwt.ClaimStrings{s.cfg.Audience},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Debug("token issued", zap.String("subject", username))
	return Token{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int(s.cfg.TokenTTL.Seconds()),
	}, nil
}

// Verify checks the signature, expiry, issuer and audience of a token and
// returns its claims. Every failure maps to ErrUnauthorized.
func (s *Service) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token invalid")
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return claims, nil
}
