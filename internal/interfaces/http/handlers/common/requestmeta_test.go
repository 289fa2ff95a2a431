package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

func newContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(constants.HeaderUserAgent, "test-agent")
	c.Request.RemoteAddr = "10.0.0.7:5555"
	return c
}

func TestRequestMeta_Anonymous(t *testing.T) {
	c := newContext()

	meta := RequestMeta(c)

	assert.Zero(t, meta.ActorID)
	assert.Nil(t, meta.Actor())
	assert.Equal(t, "10.0.0.7", meta.IPAddress)
	assert.Equal(t, "test-agent", meta.UserAgent)
}

func TestRequestMeta_Authenticated(t *testing.T) {
	c := newContext()
	c.Set(constants.ContextKeyUserID, uint(42))
	c.Set(constants.ContextKeySessionID, "sess-1")

	meta := RequestMeta(c)

	assert.Equal(t, uint(42), meta.ActorID)
	assert.Equal(t, "sess-1", CurrentSessionID(c))
}

func TestCurrentUserID_WrongType(t *testing.T) {
	c := newContext()
	c.Set(constants.ContextKeyUserID, "42")

	_, ok := CurrentUserID(c)
	assert.False(t, ok)
}
