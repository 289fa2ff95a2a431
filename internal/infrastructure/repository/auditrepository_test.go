package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/domain/audit"
)

func TestAuditRepository_AppendAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository(setupTestDB(t))

	admin := uint(1)
	entries := []audit.Entry{
		{ActorUserID: &admin, Action: "role.create", TargetType: audit.TargetRole, TargetID: "5", Details: map[string]any{"name": "qa"}},
		{ActorUserID: &admin, Action: "user.deactivate", TargetType: audit.TargetUser, TargetID: "9"},
		{Action: "login.failed", TargetType: audit.TargetUser, Details: map[string]any{"email": "x@example.com"}},
	}
	for _, e := range entries {
		l, err := audit.NewLog(e)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, l))
		assert.NotZero(t, l.ID)
	}

	all, total, err := repo.List(ctx, audit.ListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "login.failed", all[0].Action)
	assert.Nil(t, all[0].ActorUserID)

	byActor, total, err := repo.List(ctx, audit.ListFilter{ActorUserID: &admin})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byActor, 2)

	byTarget, _, err := repo.List(ctx, audit.ListFilter{TargetType: audit.TargetRole, TargetID: "5"})
	require.NoError(t, err)
	require.Len(t, byTarget, 1)
	assert.Equal(t, "qa", byTarget[0].Details["name"])

	byAction, _, err := repo.List(ctx, audit.ListFilter{Action: "LOGIN"})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "login.failed", byAction[0].Action)

	future := time.Now().UTC().Add(time.Hour)
	none, total, err := repo.List(ctx, audit.ListFilter{From: &future})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}
