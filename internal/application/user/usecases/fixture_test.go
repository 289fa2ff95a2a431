package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const validOTP = "123456"

type fixture struct {
	users    *mockUserRepository
	sessions *mockSessionRepository
	roles    *mockRoleRepository
	tokens   *mockTokenService
	mailer   *mockMailer
	audit    *mockAuditRecorder
	policies *mockPolicyRefresher
	otp      fixedOTP
	settings AuthSettings
	log      logger.Interface
}

func newFixture() *fixture {
	return &fixture{
		users:    newMockUserRepository(),
		sessions: newMockSessionRepository(),
		roles:    newMockRoleRepository(),
		tokens:   newMockTokenService(),
		mailer:   &mockMailer{},
		audit:    &mockAuditRecorder{},
		policies: &mockPolicyRefresher{},
		otp:      fixedOTP{code: validOTP},
		settings: AuthSettings{
			RefreshTTL:        14 * 24 * time.Hour,
			MinPasswordLength: 8,
			ResetURL:          "https://desk.example.com/reset-password",
		},
		log: logger.NewNopLogger(),
	}
}

// addUser stores an active user whose password is "secret123".
func (f *fixture) addUser(t *testing.T, email string, roles ...string) *user.User {
	t.Helper()
	u, err := user.NewUser(mustEmail(email), "Test User", "hashed:secret123")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	for _, name := range roles {
		r := f.roles.roles[name]
		require.NotNil(t, r)
		f.roles.userRoles[u.ID()] = append(f.roles.userRoles[u.ID()], r.ID())
	}
	return u
}

func (f *fixture) login() *LoginUseCase {
	return NewLoginUseCase(mockTransactor{}, f.users, f.sessions, f.roles, plainHasher{}, f.tokens, f.otp, f.audit, f.settings, f.log)
}

func (f *fixture) refresh() *RefreshTokenUseCase {
	return NewRefreshTokenUseCase(mockTransactor{}, f.users, f.sessions, f.tokens, f.settings, f.log)
}

