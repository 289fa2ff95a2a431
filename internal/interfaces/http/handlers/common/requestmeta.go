// Package common provides shared HTTP handler utilities.
package common

import (
	"github.com/gin-gonic/gin"

	appcommon "github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

// CurrentUserID returns the user id set by the auth middleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentSessionID returns the session id set by the auth middleware, or "".
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(constants.ContextKeySessionID)
}

// RequestMeta collects the actor, client ip and user agent of the request.
func RequestMeta(c *gin.Context) appcommon.RequestMeta {
	userID, _ := CurrentUserID(c)
	return appcommon.RequestMeta{
		ActorID:   userID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
