package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrUserInactive      = errors.New("account is disabled")
	ErrSelfDeactivation  = errors.New("you cannot deactivate your own account")
	ErrTwoFactorNotSetup = errors.New("two-factor authentication has not been set up")
	ErrTwoFactorEnabled  = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorDisabled = errors.New("two-factor authentication is not enabled")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionInvalid    = errors.New("session is revoked or expired")
)
