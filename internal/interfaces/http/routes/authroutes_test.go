package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// bucket stands in for a rate limiter and stops the request before the handler.
func bucket(name string, hits map[string]int) gin.HandlerFunc {
	return func(c *gin.Context) {
		hits[name]++
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
}

func TestSetupAuthRoutes_SeparateLimitBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hits := map[string]int{}
	engine := gin.New()
	SetupAuthRoutes(engine, &AuthRouteConfig{
		AuthMiddleware:     middleware.NewAuthMiddleware(nil, nil, logger.NewNopLogger()),
		LoginLimit:         bucket("login", hits),
		PasswordResetLimit: bucket("password_reset", hits),
	})

	for _, path := range []string{"/api/auth/login", "/api/auth/password/forgot", "/api/auth/password/forgot"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}

	assert.Equal(t, 1, hits["login"])
	assert.Equal(t, 2, hits["password_reset"])
}
