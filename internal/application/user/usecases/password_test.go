package usecases

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/application/common"
	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
)

func (f *fixture) forgot() *ForgotPasswordUseCase {
	return NewForgotPasswordUseCase(f.users, f.tokens, f.mailer, f.audit, f.settings, f.log)
}

func (f *fixture) reset() *ResetPasswordUseCase {
	return NewResetPasswordUseCase(mockTransactor{}, f.users, f.sessions, plainHasher{}, f.tokens, f.audit, f.settings, f.log)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestForgotPassword(t *testing.T) {
	f := newFixture()
	f.addUser(t, "a@example.com")
	inactive := f.addUser(t, "gone@example.com")
	require.NoError(t, inactive.Deactivate(999))
	ctx := context.Background()

	require.NoError(t, f.forgot().Execute(ctx, ForgotPasswordCommand{Email: "a@example.com"}))
	require.NoError(t, f.forgot().Execute(ctx, ForgotPasswordCommand{Email: "nobody@example.com"}))
	require.NoError(t, f.forgot().Execute(ctx, ForgotPasswordCommand{Email: "gone@example.com"}))
	require.NoError(t, f.forgot().Execute(ctx, ForgotPasswordCommand{Email: "not-an-email"}))

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "a@example.com", f.mailer.sent[0].to)
	assert.True(t, strings.HasPrefix(f.mailer.sent[0].body, f.settings.ResetURL+"?token="))
	assert.Equal(t, []string{"password.reset_requested"}, f.audit.actions())
}

func TestForgotPassword_MailFailureIsSilent(t *testing.T) {
	f := newFixture()
	f.addUser(t, "a@example.com")
	f.mailer.err = errors.New("smtp down")

	assert.NoError(t, f.forgot().Execute(context.Background(), ForgotPasswordCommand{Email: "a@example.com"}))
	assert.Empty(t, f.audit.calls)
}

func TestResetPassword(t *testing.T) {
	f := newFixture()
	u := f.addUser(t, "a@example.com")
	ctx := context.Background()
	_, err := f.login().Execute(ctx, LoginCommand{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, f.forgot().Execute(ctx, ForgotPasswordCommand{Email: "a@example.com"}))
	token := tokenFromLink(t, f.mailer.sent[0].body)

	require.NoError(t, f.reset().Execute(ctx, ResetPasswordCommand{Token: token, NewPassword: "brandnew42"}))
	assert.Equal(t, "hashed:brandnew42", u.PasswordHash())
	assert.Zero(t, f.sessions.live(u.ID()))

	err = f.reset().Execute(ctx, ResetPasswordCommand{Token: token, NewPassword: "another99"})
	assert.True(t, apperrors.IsValidationError(err), "a used token is bound to the old password")
}

func TestResetPassword_Invalid(t *testing.T) {
	f := newFixture()
	f.addUser(t, "a@example.com")

	err := f.reset().Execute(context.Background(), ResetPasswordCommand{Token: "bogus", NewPassword: "brandnew42"})
	assert.True(t, apperrors.IsValidationError(err))

	err = f.reset().Execute(context.Background(), ResetPasswordCommand{Token: "reset:77:abc", NewPassword: "brandnew42"})
	assert.True(t, apperrors.IsValidationError(err))

	require.NoError(t, f.forgot().Execute(context.Background(), ForgotPasswordCommand{Email: "a@example.com"}))
	token := tokenFromLink(t, f.mailer.sent[0].body)
	err = f.reset().Execute(context.Background(), ResetPasswordCommand{Token: token, NewPassword: "short"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestChangePassword(t *testing.T) {
	f := newFixture()
	u := f.addUser(t, "a@example.com")
	ctx := context.Background()
	current, err := f.login().Execute(ctx, LoginCommand{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = f.login().Execute(ctx, LoginCommand{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	uc := NewChangePasswordUseCase(mockTransactor{}, f.users, f.sessions, plainHasher{}, f.audit, f.settings, f.log)
	meta := common.RequestMeta{ActorID: u.ID()}

	err = uc.Execute(ctx, ChangePasswordCommand{RequestMeta: meta, CurrentPassword: "nope", NewPassword: "brandnew42"})
	assert.True(t, apperrors.IsValidationError(err))

	err = uc.Execute(ctx, ChangePasswordCommand{RequestMeta: meta, CurrentPassword: "secret123", NewPassword: "secret123"})
	assert.True(t, apperrors.IsValidationError(err))

	require.NoError(t, uc.Execute(ctx, ChangePasswordCommand{
		RequestMeta:     meta,
		SessionID:       current.SessionID,
		CurrentPassword: "secret123",
		NewPassword:     "brandnew42",
	}))
	assert.Equal(t, "hashed:brandnew42", u.PasswordHash())
	assert.Equal(t, 1, f.sessions.live(u.ID()))
	kept, _ := f.sessions.GetByID(ctx, current.SessionID)
	assert.False(t, kept.Revoked)
}

func TestTwoFactorLifecycle(t *testing.T) {
	f := newFixture()
	u := f.addUser(t, "a@example.com")
	ctx := context.Background()
	meta := common.RequestMeta{ActorID: u.ID()}
	setup := NewSetupTwoFactorUseCase(mockTransactor{}, f.users, f.otp, f.audit, f.log)
	verify := NewVerifyTwoFactorUseCase(mockTransactor{}, f.users, f.otp, f.audit, f.log)
	disable := NewDisableTwoFactorUseCase(mockTransactor{}, f.users, plainHasher{}, f.otp, f.audit, f.log)

	err := verify.Execute(ctx, VerifyTwoFactorCommand{RequestMeta: meta, Code: validOTP})
	assert.True(t, apperrors.IsValidationError(err), "verify before setup")

	out, err := setup.Execute(ctx, meta)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Secret)
	assert.Contains(t, out.OTPAuthURL, "otpauth://")
	assert.False(t, u.Is2FAEnabled())

	err = verify.Execute(ctx, VerifyTwoFactorCommand{RequestMeta: meta, Code: "000000"})
	assert.True(t, apperrors.IsValidationError(err))
	require.NoError(t, verify.Execute(ctx, VerifyTwoFactorCommand{RequestMeta: meta, Code: validOTP}))
	assert.True(t, u.Is2FAEnabled())

	_, err = setup.Execute(ctx, meta)
	assert.True(t, apperrors.IsValidationError(err), "setup while enabled")

	err = disable.Execute(ctx, DisableTwoFactorCommand{RequestMeta: meta, Password: "wrong", Code: validOTP})
	assert.True(t, apperrors.IsValidationError(err))
	err = disable.Execute(ctx, DisableTwoFactorCommand{RequestMeta: meta, Password: "secret123", Code: "111111"})
	assert.True(t, apperrors.IsValidationError(err))
	require.NoError(t, disable.Execute(ctx, DisableTwoFactorCommand{RequestMeta: meta, Password: "secret123", Code: validOTP}))
	assert.False(t, u.Is2FAEnabled())
	assert.Nil(t, u.TwoFASecret())

	assert.Equal(t, []string{"2fa.setup", "2fa.enable", "2fa.disable"}, f.audit.actions())
}
