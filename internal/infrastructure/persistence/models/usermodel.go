package models

import (
	"time"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

// UserModel is the persistence model for admin console accounts.
type UserModel struct {
	ID           uint    `gorm:"primarykey"`
	Email        string  `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string  `gorm:"not null;size:255"`
	DisplayName  string  `gorm:"not null;size:100"`
	IsActive     bool    `gorm:"not null;default:true;index"`
	Is2FAEnabled bool    `gorm:"column:is_2fa_enabled;not null;default:false"`
	TwoFASecret  *string `gorm:"column:two_fa_secret;size:64"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

// SessionTokenModel stores the hash of one issued refresh token.
type SessionTokenModel struct {
	ID               string    `gorm:"primaryKey;size:36"`
	FamilyID         string    `gorm:"not null;size:36;default:'';index"`
	UserID           uint      `gorm:"not null;index"`
	RefreshTokenHash string    `gorm:"not null;size:64"`
	UserAgent        string    `gorm:"size:512"`
	IPAddress        string    `gorm:"size:45"`
	ExpiresAt        time.Time `gorm:"not null;index"`
	Revoked          bool      `gorm:"not null;default:false"`
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

func (SessionTokenModel) TableName() string {
	return constants.TableSessionTokens
}
