package usecases

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
)

func TestListPermissions_GroupedByCategory(t *testing.T) {
	f := newRoleFixture()
	groups, err := NewListPermissionsUseCase(f.perms, f.log).Execute(context.Background())
	require.NoError(t, err)

	var categories []string
	total := 0
	for _, g := range groups {
		categories = append(categories, g.Category)
		total += len(g.Permissions)
		for _, p := range g.Permissions {
			assert.Equal(t, g.Category, p.Category)
		}
	}
	assert.True(t, sort.StringsAreSorted(categories))
	assert.Equal(t, len(permission.AllCodes()), total)
}

func TestAssignUserRoles(t *testing.T) {
	f := newRoleFixture()
	agent := f.systemRole(t, permission.AgentRoleName)
	viewer := f.systemRole(t, permission.ViewerRoleName)
	f.roles.userRoles[2] = []uint{viewer.ID()}
	uc := NewAssignUserRolesUseCase(mockTransactor{}, f.roles, f.users, f.audit, f.policies, f.log)

	names, err := uc.Execute(context.Background(), AssignUserRolesCommand{
		RequestMeta: meta,
		UserID:      2,
		RoleIDs:     []uint{agent.ID(), agent.ID()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{permission.AgentRoleName}, names)
	assert.Equal(t, []uint{agent.ID()}, f.roles.userRoles[2])
	assert.Equal(t, []string{"user.roles_assign"}, f.audit.actions)
	assert.Equal(t, []string{permission.ViewerRoleName}, f.audit.details[0]["from"])
	assert.Equal(t, 1, f.policies.refreshes)

	_, err = uc.Execute(context.Background(), AssignUserRolesCommand{UserID: 2, RoleIDs: []uint{999}})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, []uint{agent.ID()}, f.roles.userRoles[2])

	_, err = uc.Execute(context.Background(), AssignUserRolesCommand{UserID: 42, RoleIDs: []uint{agent.ID()}})
	assert.True(t, apperrors.IsNotFoundError(err))
}

type fakeAccessResolver struct {
	access *apppermission.UserAccess
}

func (f fakeAccessResolver) GetUserAccess(ctx context.Context, userID uint) (*apppermission.UserAccess, error) {
	return f.access, nil
}

func TestGetUserPermissions(t *testing.T) {
	f := newRoleFixture()
	want := &apppermission.UserAccess{Roles: []string{"agent"}, Permissions: []string{permission.TicketsRead}}
	uc := NewGetUserPermissionsUseCase(f.users, fakeAccessResolver{want}, f.log)

	got, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = uc.Execute(context.Background(), 77)
	assert.True(t, apperrors.IsNotFoundError(err))
}
