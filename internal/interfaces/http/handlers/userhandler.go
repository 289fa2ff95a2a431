package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/user/dto"
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
	handlercommon "github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/common"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

type listUsersUseCase interface {
	Execute(ctx context.Context, query usecases.ListUsersQuery) (*common.PageResult[*dto.UserDTO], error)
}

type getUserUseCase interface {
	Execute(ctx context.Context, userID uint) (*dto.UserDTO, error)
}

type createUserUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateUserCommand) (*usecases.CreateUserResult, error)
}

type updateUserUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateUserCommand) (*dto.UserDTO, error)
}

type setUserActiveUseCase interface {
	Execute(ctx context.Context, cmd usecases.SetUserActiveCommand) error
}

// UserUseCases groups the admin user management use cases.
type UserUseCases struct {
	List          listUsersUseCase
	Get           getUserUseCase
	Create        createUserUseCase
	Update        updateUserUseCase
	Deactivate    setUserActiveUseCase
	Reactivate    setUserActiveUseCase
	ResetPassword setUserActiveUseCase
}

type UserHandler struct {
	uc     UserUseCases
	logger logger.Interface
}

func NewUserHandler(uc UserUseCases, logger logger.Interface) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type CreateUserRequest struct {
	Email            string   `json:"email" binding:"required,email"`
	DisplayName      string   `json:"display_name" binding:"max=100"`
	Password         string   `json:"password" binding:"omitempty,min=8,max=72"`
	GeneratePassword bool     `json:"generate_password"`
	RoleNames        []string `json:"roles" binding:"omitempty,dive,required,max=50"`
	SendWelcome      bool     `json:"send_welcome"`
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

// ListUsers handles GET /api/admin/users
//
//	@Summary	List back-office users
//	@Tags		admin-users
//	@Produce	json
//	@Param		q			query	string	false	"Search email and display name"
//	@Param		role		query	string	false	"Role name"
//	@Param		is_active	query	bool	false	"Active flag"
//	@Param		page		query	int		false	"Page"
//	@Param		page_size	query	int		false	"Page size"
//	@Success	200	{object}	utils.APIResponse
//	@Router		/api/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := utils.ParsePagination(c)
	query := usecases.ListUsersQuery{
		Query:    c.Query("q"),
		RoleName: c.Query("role"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid is_active"))
			return
		}
		query.IsActive = &active
	}

	result, err := h.uc.List.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetUser handles GET /api/admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Get.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateUser handles POST /api/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}
	if req.Password == "" && !req.GeneratePassword {
		utils.ErrorResponseWithError(c, errors.NewValidationError("password is required unless generate_password is set"))
		return
	}

	result, err := h.uc.Create.Execute(c.Request.Context(), usecases.CreateUserCommand{
		RequestMeta:      handlercommon.RequestMeta(c),
		Email:            req.Email,
		DisplayName:      req.DisplayName,
		Password:         req.Password,
		GeneratePassword: req.GeneratePassword,
		RoleNames:        req.RoleNames,
		SendWelcome:      req.SendWelcome,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	data := gin.H{
		"user":         result.User,
		"welcome_sent": result.WelcomeSent,
	}
	if result.TemporaryPassword != "" {
		data["temporary_password"] = result.TemporaryPassword
	}
	utils.CreatedResponse(c, data, "User created successfully")
}

// UpdateUser handles PATCH /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.uc.Update.Execute(c.Request.Context(), usecases.UpdateUserCommand{
		RequestMeta: handlercommon.RequestMeta(c),
		UserID:      userID,
		DisplayName: req.DisplayName,
		IsActive:    req.IsActive,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", result)
}

// DeactivateUser handles POST /api/admin/users/:id/deactivate
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	h.runActiveCommand(c, h.uc.Deactivate, "User deactivated")
}

// ReactivateUser handles POST /api/admin/users/:id/reactivate
func (h *UserHandler) ReactivateUser(c *gin.Context) {
	h.runActiveCommand(c, h.uc.Reactivate, "User reactivated")
}

// AdminResetPassword handles POST /api/admin/users/:id/reset-password. A reset link is emailed.
func (h *UserHandler) AdminResetPassword(c *gin.Context) {
	h.runActiveCommand(c, h.uc.ResetPassword, "Password reset email sent")
}

func (h *UserHandler) runActiveCommand(c *gin.Context, uc setUserActiveUseCase, message string) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := uc.Execute(c.Request.Context(), usecases.SetUserActiveCommand{
		RequestMeta: handlercommon.RequestMeta(c),
		UserID:      userID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}
