package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/common"
	"github.com/meidasupport/supportdesk/internal/shared/config"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

type AuthHandler struct {
	uc           AuthUseCases
	cookieConfig config.CookieConfig
	jwtConfig    config.JWTConfig
	logger       logger.Interface
}

func NewAuthHandler(uc AuthUseCases, cookieConfig config.CookieConfig, jwtConfig config.JWTConfig, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		cookieConfig: cookieConfig,
		jwtConfig:    jwtConfig,
		logger:       logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	OTP      string `json:"otp" binding:"omitempty,numeric,len=6"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type LogoutRequest struct {
	All bool `json:"all"`
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required,numeric,len=6"`
}

type DisableTwoFactorRequest struct {
	Password string `json:"password" binding:"required"`
	Code     string `json:"code" binding:"required,numeric,len=6"`
}

func (h *AuthHandler) accessMaxAge() int  { return h.jwtConfig.AccessExpMinutes * 60 }
func (h *AuthHandler) refreshMaxAge() int { return h.jwtConfig.RefreshExpDays * 24 * 60 * 60 }

// Login handles POST /api/auth/login
//
//	@Summary	Sign in with email, password and an optional TOTP code
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	401		{object}	utils.APIResponse
//	@Failure	403		{object}	utils.APIResponse
//	@Router		/api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.uc.Login.Execute(c.Request.Context(), usecases.LoginCommand{
		RequestMeta: common.RequestMeta(c),
		Email:       req.Email,
		Password:    req.Password,
		OTP:         req.OTP,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetAuthCookies(c, h.cookieConfig, result.AccessToken, result.RefreshToken, h.accessMaxAge(), h.refreshMaxAge())

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
	})
}

// RefreshToken handles POST /api/auth/refresh. The cookie takes precedence over the body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken := utils.GetTokenFromCookie(c, utils.RefreshTokenCookie)
	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "refresh token is required")
		return
	}

	result, err := h.uc.Refresh.Execute(c.Request.Context(), usecases.RefreshTokenCommand{
		RefreshToken: refreshToken,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.logger.Warnw("token refresh failed", "error", err, "client_ip", c.ClientIP())
		if errors.IsUnauthorizedError(err) {
			utils.ClearAuthCookies(c, h.cookieConfig)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetAuthCookies(c, h.cookieConfig, result.AccessToken, result.RefreshToken, h.accessMaxAge(), h.refreshMaxAge())

	utils.SuccessResponse(c, http.StatusOK, "token refreshed successfully", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := common.CurrentSessionID(c)
	if sessionID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "session not found")
		return
	}

	var req LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindingError(err))
			return
		}
	}

	if err := h.uc.Logout.Execute(c.Request.Context(), usecases.LogoutCommand{
		RequestMeta: common.RequestMeta(c),
		SessionID:   sessionID,
		All:         req.All || c.Query("all") == "true",
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearAuthCookies(c, h.cookieConfig)

	utils.SuccessResponse(c, http.StatusOK, "logout successful", nil)
}

// GetCurrentUser handles GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := common.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	me, err := h.uc.CurrentUser.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", me)
}

// Register handles POST /api/auth/register. It is refused unless self registration is enabled.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	created, err := h.uc.Register.Execute(c.Request.Context(), usecases.RegisterCommand{
		RequestMeta: common.RequestMeta(c),
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, created, "registration successful")
}

// ForgotPassword handles POST /api/auth/password/forgot. It answers 200 whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.uc.ForgotPassword.Execute(c.Request.Context(), usecases.ForgotPasswordCommand{
		RequestMeta: common.RequestMeta(c),
		Email:       req.Email,
	}); err != nil {
		h.logger.Errorw("forgot password failed", "error", err)
	}

	utils.SuccessResponse(c, http.StatusOK, "if the account exists, a reset link has been sent", nil)
}

// ResetPassword handles POST /api/auth/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.uc.ResetPassword.Execute(c.Request.Context(), usecases.ResetPasswordCommand{
		RequestMeta: common.RequestMeta(c),
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearAuthCookies(c, h.cookieConfig)
	utils.SuccessResponse(c, http.StatusOK, "password reset successfully", nil)
}

// ChangePassword handles POST /api/auth/password/change. Other sessions are revoked.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.uc.ChangePassword.Execute(c.Request.Context(), usecases.ChangePasswordCommand{
		RequestMeta:     common.RequestMeta(c),
		SessionID:       common.CurrentSessionID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "password changed successfully", nil)
}

// SetupTwoFactor handles POST /api/auth/2fa/setup
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	setup, err := h.uc.SetupTwoFactor.Execute(c.Request.Context(), common.RequestMeta(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "scan the code and verify it to enable two-factor authentication", setup)
}

// VerifyTwoFactor handles POST /api/auth/2fa/verify
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.uc.VerifyTwoFactor.Execute(c.Request.Context(), usecases.VerifyTwoFactorCommand{
		RequestMeta: common.RequestMeta(c),
		Code:        req.Code,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "two-factor authentication enabled", nil)
}

// DisableTwoFactor handles POST /api/auth/2fa/disable
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	var req DisableTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.uc.DisableTwoFactor.Execute(c.Request.Context(), usecases.DisableTwoFactorCommand{
		RequestMeta: common.RequestMeta(c),
		Password:    req.Password,
		Code:        req.Code,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "two-factor authentication disabled", nil)
}
