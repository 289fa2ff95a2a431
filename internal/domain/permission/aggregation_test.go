package permission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func role(t *testing.T, id uint, name string, system bool, codes ...string) *Role {
	t.Helper()
	now := time.Now()
	r, err := ReconstructRole(id, name, "", system, codes, now, now)
	require.NoError(t, err)
	return r
}

func TestEffectivePermissions_Union(t *testing.T) {
	agent := role(t, 1, AgentRoleName, true, TicketsRead, TicketsWrite, TicketsUpload, WarrantyRead)
	dispatcher := role(t, 2, "dispatcher", false, TicketsRead, TicketsAssign)

	got := EffectivePermissions([]*Role{agent, dispatcher})
	assert.Equal(t, []string{TicketsAssign, TicketsRead, TicketsUpload, TicketsWrite, WarrantyRead}, got)
}

func TestEffectivePermissions_Empty(t *testing.T) {
	assert.Empty(t, EffectivePermissions(nil))
}

func TestEffectivePermissions_AdminGetsCatalog(t *testing.T) {
	admin := role(t, 1, AdminRoleName, true)
	assert.Equal(t, AllCodes(), EffectivePermissions([]*Role{admin}))
}

func TestHasPermission(t *testing.T) {
	viewer := role(t, 1, ViewerRoleName, true, TicketsRead, WarrantyRead)
	admin := role(t, 2, AdminRoleName, true)

	assert.True(t, HasPermission([]*Role{viewer}, TicketsRead))
	assert.False(t, HasPermission([]*Role{viewer}, TicketsWrite))
	assert.True(t, HasPermission([]*Role{admin}, "anything.at_all"))
	assert.False(t, HasPermission(nil, TicketsRead))
}

func TestRoleNames(t *testing.T) {
	roles := []*Role{role(t, 1, "viewer", true), role(t, 2, "agent", true)}
	assert.Equal(t, []string{"agent", "viewer"}, RoleNames(roles))
}
