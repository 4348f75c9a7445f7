package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyClaims is the Gin context key for session token claims.
	ContextKeyClaims = "claims"
	// ContextKeySession is the Gin context key for the resolved session.
	ContextKeySession = "session"
)

// RequireSession validates the session token from the Authorization header
// (or the ?token= query for WebSocket upgrades) and resolves the in-memory
// session it names. A valid token whose session is gone — typically after a
// process restart — is rejected: the state it referred to no longer exists.
func RequireSession(authService *service.AuthService, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		sess, ok := store.Get(claims.SessionID)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionExpired)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// RequireScreen gates a route group on the session's current screen. The
// screen state machine is the single source of truth for what a client may
// do, so a request against the wrong screen is rejected rather than
// silently tolerated. Role mismatches on the two panels get their own
// codes so clients can distinguish "log in as a student first" from
// "finish onboarding first".
func RequireScreen(expected session.Screen) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionExpired)
			return
		}

		current := sess.Screen()
		if current == expected {
			c.Next()
			return
		}

		if role, _, ok := sess.Identity(); ok {
			switch {
			case expected == session.ScreenStudentPanel && role != model.RoleStudent:
				response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
				return
			case expected == session.ScreenEducatorPanel && role != model.RoleEducator:
				response.AbortFail(c, http.StatusForbidden, response.ErrEducatorAccessOnly)
				return
			}
		}
		response.AbortFail(c, http.StatusConflict, response.ErrWrongScreen)
	}
}

// GetSession retrieves the resolved session from the Gin context.
func GetSession(c *gin.Context) *session.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := val.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// GetClaims retrieves the session token claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	// Fallback for WebSocket upgrades which cannot send headers.
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header or token query required")
	}

	return authService.ValidateToken(tokenStr)
}
