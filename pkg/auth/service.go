package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
)

// AuthService resolves the caller of an HTTP request.
type AuthService interface {
	// ValidateRequest authenticates the request. It checks, in order:
	//   1. The browser session cookie
	//   2. Authorization header with "Bearer" scheme (API clients)
	// Returns the claims and the raw bearer token (empty for sessions).
	ValidateRequest(r *http.Request) (*Claims, string, error)
}

type authService struct {
	sessions  *SessionStore
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. sessions may be nil for
// bearer-only surfaces such as MCP.
func NewAuthService(sessions *SessionStore, validator TokenValidator, logger *zap.Logger) AuthService {
	return &authService{
		sessions:  sessions,
		validator: validator,
		logger:    logger,
	}
}

func (s *authService) ValidateRequest(r *http.Request) (*Claims, string, error) {
	if s.sessions != nil {
		if claims, err := s.sessions.Load(r); err == nil {
			return claims, "", nil
		}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No credentials found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, "", ErrMissingAuthorization
	}

	scheme, tokenString, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" || tokenString == "" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, "", ErrInvalidAuthFormat
	}

	claims, err := s.validator.ValidateToken(tokenString)
	if err != nil {
		s.logger.Debug("Token validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, "", err
	}

	return claims, tokenString, nil
}

var _ AuthService = (*authService)(nil)
