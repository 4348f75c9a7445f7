package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/edututor/edututor-backend/internal/config"
	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is re-exported so handlers depend on one package.
var ErrInvalidCredentials = session.ErrInvalidCredentials

// Claims extends JWT standard claims with the session reference. The token
// carries no state of its own — it only names an in-memory session, so
// everything it grants dies with the process.
type Claims struct {
	jwt.RegisteredClaims
	SessionID uuid.UUID `json:"session_id"`
}

// AuthService handles session tokens, registration and login.
type AuthService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg: cfg,
		log: log.With().Str("component", "auth_service").Logger(),
	}
}

// IssueSessionToken creates a signed JWT whose subject is the session ID.
func (s *AuthService) IssueSessionToken(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a session token, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Register inserts or overwrites the credential for role:userID inside the
// caller's session. Duplicate registration is an overwrite, not an error.
func (s *AuthService) Register(sess *session.Session, req model.RegisterRequest) {
	sess.Register(req.Role, req.UserID, req.Password)
	s.log.Info().
		Str("role", string(req.Role)).
		Str("user_id", req.UserID).
		Msg("User registered")
}

// Login authenticates against the session's registered credentials.
func (s *AuthService) Login(sess *session.Session, req model.LoginRequest) error {
	if err := sess.Login(req.Role, req.UserID, req.Password); err != nil {
		s.log.Info().
			Str("role", string(req.Role)).
			Str("user_id", req.UserID).
			Msg("Login rejected")
		return err
	}
	s.log.Info().
		Str("role", string(req.Role)).
		Str("user_id", req.UserID).
		Msg("Login succeeded")
	return nil
}

// Logout clears the session's identity and per-login state.
func (s *AuthService) Logout(sess *session.Session) {
	role, userID, ok := sess.Identity()
	sess.Logout()
	if ok {
		s.log.Info().
			Str("role", string(role)).
			Str("user_id", userID).
			Msg("Logged out")
	}
}
