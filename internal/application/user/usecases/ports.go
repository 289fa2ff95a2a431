package usecases

import (
	"context"
	"time"

	"github.com/meidasupport/supportdesk/internal/application/common"
	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns an error when password does not match hash.
	Verify(password, hash string) error
	// NeedsRehash reports a hash made with outdated parameters.
	NeedsRehash(hash string) bool
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RefreshClaims are the verified contents of a refresh token.
type RefreshClaims struct {
	UserID    uint
	SessionID string
}

type TokenService interface {
	Generate(userID uint, sessionID string) (*TokenPair, error)
	ParseRefresh(token string) (*RefreshClaims, error)
	// GeneratePasswordReset binds the token to a fingerprint of the current password hash,
	// so it stops working once the password changes.
	GeneratePasswordReset(userID uint, fingerprint string) (string, error)
	ParsePasswordReset(token string) (userID uint, fingerprint string, err error)
}

type OTPProvider interface {
	// GenerateSecret returns a new base32 secret and its otpauth:// provisioning URL.
	GenerateSecret(accountName string) (secret, url string, err error)
	Validate(code, secret string) bool
}

type Mailer interface {
	SendPasswordResetEmail(to, resetURL string) error
	SendWelcomeEmail(to, displayName, password string) error
}

type AuditRecorder interface {
	RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error
}

type PolicyRefresher interface {
	Refresh(ctx context.Context)
}

type AccessResolver interface {
	GetUserAccess(ctx context.Context, userID uint) (*apppermission.UserAccess, error)
}

// AuthSettings carries the configuration the account use cases depend on.
type AuthSettings struct {
	RefreshTTL        time.Duration
	AllowSelfRegister bool
	MinPasswordLength int
	// ResetURL is the frontend page that receives ?token=.
	ResetURL string
}

func (s AuthSettings) minPasswordLength() int {
	if s.MinPasswordLength <= 0 {
		return 8
	}
	return s.MinPasswordLength
}
