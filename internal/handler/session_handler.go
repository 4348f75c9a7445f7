package handler

import (
	"net/http"

	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionHandler handles session lifecycle and screen routing endpoints.
type SessionHandler struct {
	authService *service.AuthService
	store       *session.Store
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(authService *service.AuthService, store *session.Store) *SessionHandler {
	return &SessionHandler{authService: authService, store: store}
}

// CreateSession godoc
// POST /api/v1/session
// Creates a fresh in-memory session and returns its bearer token. The new
// session starts on the onboarding screen.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.store.Create()

	token, err := h.authService.IssueSessionToken(sess.ID())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"token":  token,
		"screen": sess.Screen(),
	})
}

// GetSession godoc
// GET /api/v1/session
// Returns the current screen and, when logged in, the identity. Clients
// render exactly the screen named here.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
		return
	}

	data := gin.H{"screen": sess.Screen()}
	if role, userID, ok := sess.Identity(); ok {
		data["role"] = role
		data["user_id"] = userID
	}
	response.Success(c, http.StatusOK, data)
}

// StartOnboarding godoc
// POST /api/v1/session/start
// The "Get Started" button: moves the session from onboarding to auth.
func (h *SessionHandler) StartOnboarding(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
		return
	}

	sess.Start()
	response.Success(c, http.StatusOK, gin.H{"screen": sess.Screen()})
}
