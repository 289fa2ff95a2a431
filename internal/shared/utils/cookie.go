package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/shared/config"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetAuthCookies sets the access and refresh tokens as HttpOnly cookies.
func SetAuthCookies(c *gin.Context, cfg config.CookieConfig, accessToken, refreshToken string, accessMaxAge, refreshMaxAge int) {
	setCookie(c, cfg, AccessTokenCookie, accessToken, accessMaxAge)
	setCookie(c, cfg, RefreshTokenCookie, refreshToken, refreshMaxAge)
}

func ClearAuthCookies(c *gin.Context, cfg config.CookieConfig) {
	setCookie(c, cfg, AccessTokenCookie, "", -1)
	setCookie(c, cfg, RefreshTokenCookie, "", -1)
}

func setCookie(c *gin.Context, cfg config.CookieConfig, name, value string, maxAge int) {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(name, value, maxAge, path, cfg.Domain, cfg.Secure, true)
}

// GetTokenFromCookie returns the named cookie value or "".
func GetTokenFromCookie(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
