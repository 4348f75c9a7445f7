package handler

import (
	"errors"
	"net/http"

	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// POST /api/v1/auth/register
// Inserts or overwrites the credential for role:user_id. Empty fields fail
// validation; an existing key is silently overwritten (last write wins).
func (h *AuthHandler) Register(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
		return
	}

	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.authService.Register(sess, req)
	response.Success(c, http.StatusOK, gin.H{"registered": true})
}

// Login godoc
// POST /api/v1/auth/login
// Exact-match credential check. Success moves the session to the panel for
// the chosen role; failure leaves all session state unchanged.
func (h *AuthHandler) Login(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
		return
	}

	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.Login(sess, req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"screen":  sess.Screen(),
		"role":    req.Role,
		"user_id": req.UserID,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears identity, profile and active quiz; returns the session to the
// auth screen. Records and history survive within the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
		return
	}

	h.authService.Logout(sess)
	response.Success(c, http.StatusOK, gin.H{"screen": sess.Screen()})
}
