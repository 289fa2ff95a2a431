package dto

import (
	"time"

	"github.com/meidasupport/supportdesk/internal/domain/user"
)

// UserDTO is the admin and self view of a user account.
type UserDTO struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	IsActive     bool       `json:"is_active"`
	Is2FAEnabled bool       `json:"is_2fa_enabled"`
	Roles        []string   `json:"roles"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MeDTO adds the effective permissions of the signed-in user.
type MeDTO struct {
	UserDTO
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
}

type TwoFactorSetupDTO struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

func ToUserDTO(u *user.User, roles []string) *UserDTO {
	if u == nil {
		return nil
	}
	if roles == nil {
		roles = []string{}
	}
	return &UserDTO{
		ID:           u.ID(),
		Email:        u.Email().String(),
		DisplayName:  u.DisplayName(),
		IsActive:     u.IsActive(),
		Is2FAEnabled: u.Is2FAEnabled(),
		Roles:        roles,
		LastLoginAt:  u.LastLoginAt(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}
