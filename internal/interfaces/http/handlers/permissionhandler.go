package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/common"
	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	"github.com/meidasupport/supportdesk/internal/application/permission/dto"
	"github.com/meidasupport/supportdesk/internal/application/permission/usecases"
	handlercommon "github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/common"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

type listRolesUseCase interface {
	Execute(ctx context.Context, query usecases.ListRolesQuery) (*common.PageResult[*dto.RoleDTO], error)
}

type getRoleUseCase interface {
	Execute(ctx context.Context, roleID uint) (*dto.RoleDetailDTO, error)
}

type createRoleUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateRoleCommand) (*dto.RoleDetailDTO, error)
}

type updateRoleUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateRoleCommand) (*dto.RoleDetailDTO, error)
}

type deleteRoleUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteRoleCommand) error
}

type listPermissionsUseCase interface {
	Execute(ctx context.Context) ([]*dto.PermissionGroupDTO, error)
}

type assignUserRolesUseCase interface {
	Execute(ctx context.Context, cmd usecases.AssignUserRolesCommand) ([]string, error)
}

type getUserPermissionsUseCase interface {
	Execute(ctx context.Context, userID uint) (*apppermission.UserAccess, error)
}

// PermissionUseCases groups the role and permission management use cases.
type PermissionUseCases struct {
	ListRoles          listRolesUseCase
	GetRole            getRoleUseCase
	CreateRole         createRoleUseCase
	UpdateRole         updateRoleUseCase
	DeleteRole         deleteRoleUseCase
	ListPermissions    listPermissionsUseCase
	AssignUserRoles    assignUserRolesUseCase
	GetUserPermissions getUserPermissionsUseCase
}

type PermissionHandler struct {
	uc     PermissionUseCases
	logger logger.Interface
}

func NewPermissionHandler(uc PermissionUseCases, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{
		uc:     uc,
		logger: logger,
	}
}

type CreateRoleRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=50"`
	Description     string   `json:"description" binding:"max=255"`
	PermissionCodes []string `json:"permissions" binding:"omitempty,dive,required"`
}

// UpdateRoleRequest replaces the permission set only when permissions is present.
type UpdateRoleRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=2,max=50"`
	Description     *string  `json:"description" binding:"omitempty,max=255"`
	PermissionCodes []string `json:"permissions" binding:"omitempty,dive,required"`
}

type AssignUserRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required,dive,min=1"`
}

// ListRoles handles GET /api/admin/roles
func (h *PermissionHandler) ListRoles(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.uc.ListRoles.Execute(c.Request.Context(), usecases.ListRolesQuery{
		Query:    c.Query("q"),
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetRole handles GET /api/admin/roles/:id
func (h *PermissionHandler) GetRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.uc.GetRole.Execute(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", role)
}

// CreateRole handles POST /api/admin/roles
//
//	@Summary	Create a custom role
//	@Tags		admin-roles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateRoleRequest	true	"Role"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/api/admin/roles [post]
func (h *PermissionHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	role, err := h.uc.CreateRole.Execute(c.Request.Context(), usecases.CreateRoleCommand{
		RequestMeta:     handlercommon.RequestMeta(c),
		Name:            req.Name,
		Description:     req.Description,
		PermissionCodes: req.PermissionCodes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, role, "Role created successfully")
}

// UpdateRole handles PUT /api/admin/roles/:id
func (h *PermissionHandler) UpdateRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	role, err := h.uc.UpdateRole.Execute(c.Request.Context(), usecases.UpdateRoleCommand{
		RequestMeta:     handlercommon.RequestMeta(c),
		RoleID:          roleID,
		Name:            req.Name,
		Description:     req.Description,
		PermissionCodes: req.PermissionCodes,
		ReplaceCodes:    req.PermissionCodes != nil,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", role)
}

// DeleteRole handles DELETE /api/admin/roles/:id. Roles still assigned to users are refused with 409.
func (h *PermissionHandler) DeleteRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.uc.DeleteRole.Execute(c.Request.Context(), usecases.DeleteRoleCommand{
		RequestMeta: handlercommon.RequestMeta(c),
		RoleID:      roleID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListPermissions handles GET /api/admin/permissions
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	groups, err := h.uc.ListPermissions.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", groups)
}

// AssignUserRoles handles PUT /api/admin/users/:id/roles
func (h *PermissionHandler) AssignUserRoles(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	roles, err := h.uc.AssignUserRoles.Execute(c.Request.Context(), usecases.AssignUserRolesCommand{
		RequestMeta: handlercommon.RequestMeta(c),
		UserID:      userID,
		RoleIDs:     req.RoleIDs,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Roles assigned successfully", gin.H{
		"user_id": userID,
		"roles":   roles,
	})
}

// GetUserPermissions handles GET /api/admin/users/:id/permissions
func (h *PermissionHandler) GetUserPermissions(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	access, err := h.uc.GetUserPermissions.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", access)
}
