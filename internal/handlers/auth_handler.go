package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/security"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

type adminLoginRequest struct {
	Passcode string `json:"passcode"`
}

// Login signs a member in with their mobile number and one-time code
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.authService.Login(req.Mobile, req.OTP)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.startSession(w, r, session)
}

// AdminLogin signs an administrator in with the passcode
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.authService.AdminLogin(req.Passcode)
	if err != nil {
		h.logger.Warnw("Failed admin login", "client", security.GetClientIP(r))
		respondWithError(w, h.logger, err)
		return
	}
	h.startSession(w, r, session)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, session *models.Session) {
	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.Token, session.ExpiresAt))
	h.logger.Infow("User logged in", "user", session.User.ID, "role", session.User.Role)
	respondJSON(w, http.StatusOK, session)
}

// Logout clears the session cookie. Tokens are stateless, so nothing is
// revoked server side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, nil)
}

// Me returns the signed-in user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GetUserFromContext(r.Context()))
}
