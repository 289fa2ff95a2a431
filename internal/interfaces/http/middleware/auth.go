package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

// AccessTokenVerifier validates an access token and returns its user and session.
type AccessTokenVerifier interface {
	VerifyAccess(token string) (userID uint, sessionID string, err error)
}

// SessionValidator rejects tokens whose user was deactivated or whose session was revoked.
type SessionValidator interface {
	Execute(ctx context.Context, userID uint, sessionID string) error
}

type AuthMiddleware struct {
	verifier AccessTokenVerifier
	sessions SessionValidator
	logger   logger.Interface
}

// NewAuthMiddleware builds the middleware. A nil sessions validator only checks the token.
func NewAuthMiddleware(verifier AccessTokenVerifier, sessions SessionValidator, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		userID, sessionID, err := m.verifier.VerifyAccess(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if m.sessions != nil {
			if err := m.sessions.Execute(c.Request.Context(), userID, sessionID); err != nil {
				m.logger.Infow("rejected token of ended session", "user_id", userID, "session_id", sessionID, "error", err)
				utils.ErrorResponseWithError(c, err)
				c.Abort()
				return
			}
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeySessionID, sessionID)

		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and never rejects the request.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := extractToken(c); ok {
			if userID, sessionID, err := m.verifier.VerifyAccess(token); err == nil {
				c.Set(constants.ContextKeyUserID, userID)
				c.Set(constants.ContextKeySessionID, sessionID)
			}
		}
		c.Next()
	}
}

// extractToken reads the access token cookie first, then a Bearer Authorization header.
func extractToken(c *gin.Context) (string, bool) {
	if token := utils.GetTokenFromCookie(c, utils.AccessTokenCookie); token != "" {
		return token, true
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
