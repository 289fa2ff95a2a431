package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
)

func TestValidateSession(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, "admin@example.com")
	u := f.addUser(t, "agent@example.com")
	ctx := context.Background()
	uc := NewValidateSessionUseCase(f.users, f.sessions, f.log)

	res, err := f.login().Execute(ctx, LoginCommand{Email: "agent@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, uc.Execute(ctx, u.ID(), res.SessionID))

	tests := []struct {
		name      string
		userID    uint
		sessionID string
	}{
		{"unknown user", 999, res.SessionID},
		{"unknown session", u.ID(), "missing"},
		{"empty session", u.ID(), ""},
		{"session of another user", admin.ID(), res.SessionID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.Execute(ctx, tt.userID, tt.sessionID)
			assert.True(t, apperrors.IsUnauthorizedError(err), "got %v", err)
		})
	}

	t.Run("deactivated user", func(t *testing.T) {
		require.NoError(t, u.Deactivate(admin.ID()))
		err := uc.Execute(ctx, u.ID(), res.SessionID)
		assert.True(t, apperrors.IsUnauthorizedError(err))
		u.Activate()
	})

	t.Run("revoked session", func(t *testing.T) {
		s, err := f.sessions.GetByID(ctx, res.SessionID)
		require.NoError(t, err)
		s.Revoke()
		err = uc.Execute(ctx, u.ID(), res.SessionID)
		assert.True(t, apperrors.IsUnauthorizedError(err))
	})
}
