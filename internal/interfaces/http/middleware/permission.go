package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

// PermissionChecker reports whether a user holds a permission code.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, userID uint, code string) (bool, error)
}

type PermissionMiddleware struct {
	checker PermissionChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission must run after RequireAuth.
func (m *PermissionMiddleware) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(constants.ContextKeyUserID)
		userID, ok := raw.(uint)
		if !exists || !ok || userID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		allowed, err := m.checker.CheckPermission(c.Request.Context(), userID, code)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "permission", code)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "permission", code, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
