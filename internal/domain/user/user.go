package user

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

const maxDisplayNameLength = 100

// User is a back-office account. Roles live in the permission context and are linked by user id.
type User struct {
	id           uint
	email        *vo.Email
	passwordHash string
	displayName  string
	isActive     bool
	is2FAEnabled bool
	twoFASecret  *string
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email *vo.Email, displayName, passwordHash string) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	displayName = strings.TrimSpace(displayName)
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}
	now := biztime.NowUTC()
	return &User{
		email:        email,
		passwordHash: passwordHash,
		displayName:  displayName,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(
	id uint,
	email *vo.Email,
	passwordHash string,
	displayName string,
	isActive bool,
	is2FAEnabled bool,
	twoFASecret *string,
	lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		displayName:  displayName,
		isActive:     isActive,
		is2FAEnabled: is2FAEnabled,
		twoFASecret:  twoFASecret,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func validateDisplayName(name string) error {
	if utf8.RuneCountInString(name) > maxDisplayNameLength {
		return fmt.Errorf("display name exceeds maximum length of %d characters", maxDisplayNameLength)
	}
	return nil
}

func (u *User) ID() uint                { return u.id }
func (u *User) Email() *vo.Email        { return u.email }
func (u *User) PasswordHash() string    { return u.passwordHash }
func (u *User) DisplayName() string     { return u.displayName }
func (u *User) IsActive() bool          { return u.isActive }
func (u *User) Is2FAEnabled() bool      { return u.is2FAEnabled }
func (u *User) TwoFASecret() *string    { return u.twoFASecret }
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }
func (u *User) CreatedAt() time.Time    { return u.createdAt }
func (u *User) UpdatedAt() time.Time    { return u.updatedAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) UpdateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if err := validateDisplayName(name); err != nil {
		return err
	}
	u.displayName = name
	u.touch()
	return nil
}

func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = hash
	u.touch()
	return nil
}

// Deactivate disables the account. actorID is the admin performing it.
func (u *User) Deactivate(actorID uint) error {
	if actorID == u.id {
		return ErrSelfDeactivation
	}
	u.isActive = false
	u.touch()
	return nil
}

func (u *User) Activate() {
	u.isActive = true
	u.touch()
}

func (u *User) RecordLogin() {
	now := biztime.NowUTC()
	u.lastLoginAt = &now
}

// BeginTwoFactorSetup stores a pending secret. It becomes active only after EnableTwoFactor.
func (u *User) BeginTwoFactorSetup(secret string) error {
	if u.is2FAEnabled {
		return ErrTwoFactorEnabled
	}
	u.twoFASecret = &secret
	u.touch()
	return nil
}

func (u *User) EnableTwoFactor() error {
	if u.is2FAEnabled {
		return ErrTwoFactorEnabled
	}
	if u.twoFASecret == nil || *u.twoFASecret == "" {
		return ErrTwoFactorNotSetup
	}
	u.is2FAEnabled = true
	u.touch()
	return nil
}

func (u *User) DisableTwoFactor() error {
	if !u.is2FAEnabled {
		return ErrTwoFactorDisabled
	}
	u.is2FAEnabled = false
	u.twoFASecret = nil
	u.touch()
	return nil
}

func (u *User) touch() {
	u.updatedAt = biztime.NowUTC()
}
