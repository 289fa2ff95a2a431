package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

func TestRecorder_RecordFor(t *testing.T) {
	var appended *audit.Log
	repo := &mockAuditRepository{
		AppendFunc: func(ctx context.Context, log *audit.Log) error {
			appended = log
			return nil
		},
	}
	r := NewRecorder(repo, logger.NewNopLogger())

	meta := common.RequestMeta{ActorID: 9, IPAddress: "10.0.0.1", UserAgent: "test"}
	require.NoError(t, r.RecordFor(context.Background(), meta, "role.create", audit.TargetRole, "3", map[string]any{"name": "ops"}))

	require.NotNil(t, appended)
	assert.Equal(t, "role.create", appended.Action)
	require.NotNil(t, appended.ActorUserID)
	assert.Equal(t, uint(9), *appended.ActorUserID)
	assert.Equal(t, "10.0.0.1", appended.IPAddress)
	assert.Equal(t, "ops", appended.Details["name"])
}

func TestRecorder_AnonymousActor(t *testing.T) {
	var appended *audit.Log
	repo := &mockAuditRepository{
		AppendFunc: func(ctx context.Context, log *audit.Log) error {
			appended = log
			return nil
		},
	}
	r := NewRecorder(repo, logger.NewNopLogger())
	require.NoError(t, r.RecordFor(context.Background(), common.RequestMeta{}, "login.failed", audit.TargetUser, "", nil))
	assert.Nil(t, appended.ActorUserID)
}

func TestListAuditLogs_EnrichesActors(t *testing.T) {
	actor := uint(2)
	repo := &mockAuditRepository{
		ListFunc: func(ctx context.Context, filter audit.ListFilter) ([]*audit.Log, int64, error) {
			assert.Equal(t, "login", filter.Action)
			require.NotNil(t, filter.From)
			return []*audit.Log{
				{ID: 1, ActorUserID: &actor, Action: "login.success", Timestamp: time.Now()},
				{ID: 2, Action: "login.failed", Timestamp: time.Now()},
			}, 2, nil
		},
	}
	users := &mockUserRepository{
		GetByIDsFunc: func(ctx context.Context, ids []uint) ([]*user.User, error) {
			assert.Equal(t, []uint{2}, ids)
			email, _ := vo.NewEmail("admin@example.com")
			u, err := user.ReconstructUser(2, email, "hash", "Admin", true, false, nil, nil, time.Now(), time.Now())
			require.NoError(t, err)
			return []*user.User{u}, nil
		},
	}

	uc := NewListAuditLogsUseCase(repo, users, logger.NewNopLogger())
	result, err := uc.Execute(context.Background(), ListAuditLogsQuery{
		Action:   "login",
		DateFrom: "2026-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Logs, 2)
	require.NotNil(t, result.Logs[0].ActorEmail)
	assert.Equal(t, "admin@example.com", *result.Logs[0].ActorEmail)
	assert.Nil(t, result.Logs[1].ActorEmail)
}

func TestListAuditLogs_InvalidDate(t *testing.T) {
	uc := NewListAuditLogsUseCase(&mockAuditRepository{}, &mockUserRepository{}, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), ListAuditLogsQuery{DateTo: "yesterday"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
