package handlers

import (
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/services"
)

// SignUpRequest is the body of POST /api/auth/sign-up.
type SignUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SignInRequest is the body of POST /api/auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by sign-up and sign-in. The bearer token is
// for API and MCP clients; browsers use the session cookie set alongside it.
type SessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	userService services.UserService
	issuer      *auth.TokenIssuer
	sessions    *auth.SessionStore
	auditor     *audit.SecurityAuditor
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	userService services.UserService,
	issuer *auth.TokenIssuer,
	sessions *auth.SessionStore,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		issuer:      issuer,
		sessions:    sessions,
		auditor:     auditor,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/sign-up", h.SignUp)
	mux.HandleFunc("POST /api/auth/sign-in", h.SignIn)
	mux.HandleFunc("POST /api/auth/sign-out", h.SignOut)
	mux.HandleFunc("GET /api/auth/me", authMiddleware.RequireAuth(h.Me))
}

// SignUp handles POST /api/auth/sign-up and signs the new user in.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, "sign_up", err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// SignIn handles POST /api/auth/sign-in.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, h.logger, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.auditor != nil {
			h.auditor.LogAuthFailure(req.Email, clientIP(r), r.Header.Get("X-Forwarded-For"))
		}
		writeServiceError(w, h.logger, "sign_in", err)
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

// SignOut handles POST /api/auth/sign-out. It is idempotent.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "me", err)
		return
	}
	respond(w, h.logger, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, expiresAt, err := h.issuer.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		writeServiceError(w, h.logger, "issue_token", err)
		return
	}

	if err := h.sessions.Save(w, r, user.ID.String(), user.Email, user.Name); err != nil {
		writeServiceError(w, h.logger, "save_session", err)
		return
	}

	respond(w, h.logger, status, SessionResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// clientIP returns the host of the connection peer. Forwarding headers are
// client-controlled and are not consulted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
