package dto

import (
	"time"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
)

type PermissionDTO struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type RoleDTO struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	IsSystem         bool      `json:"is_system"`
	PermissionsCount int       `json:"permissions_count"`
	UserCount        int64     `json:"user_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RoleDetailDTO struct {
	RoleDTO
	Permissions []*PermissionDTO `json:"permissions"`
}

type PermissionGroupDTO struct {
	Category    string           `json:"category"`
	Permissions []*PermissionDTO `json:"permissions"`
}

func ToPermissionDTO(p *permission.Permission) *PermissionDTO {
	return &PermissionDTO{
		ID:          p.ID(),
		Code:        p.Code(),
		Description: p.Description(),
		Category:    p.Category(),
	}
}

func ToRoleDTO(r *permission.Role, userCount int64) *RoleDTO {
	return &RoleDTO{
		ID:               r.ID(),
		Name:             r.Name(),
		Description:      r.Description(),
		IsSystem:         r.IsSystem(),
		PermissionsCount: len(r.PermissionCodes()),
		UserCount:        userCount,
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}
