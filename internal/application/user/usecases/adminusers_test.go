package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
)

func (f *fixture) createUser() *CreateUserUseCase {
	return NewCreateUserUseCase(mockTransactor{}, f.users, f.roles, plainHasher{}, f.mailer, f.audit, f.policies, f.settings, f.log)
}

func TestCreateUser_GeneratedPasswordAndWelcome(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, "admin@example.com", permission.AdminRoleName)

	res, err := f.createUser().Execute(context.Background(), CreateUserCommand{
		RequestMeta:      common.RequestMeta{ActorID: admin.ID()},
		Email:            "tech@example.com",
		DisplayName:      "Tech",
		GeneratePassword: true,
		RoleNames:        []string{permission.AgentRoleName, permission.AgentRoleName},
		SendWelcome:      true,
	})
	require.NoError(t, err)
	assert.Len(t, res.TemporaryPassword, tempPasswordLength)
	assert.True(t, res.WelcomeSent)
	assert.Equal(t, []string{permission.AgentRoleName}, res.User.Roles)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "welcome", f.mailer.sent[0].kind)
	assert.Equal(t, res.TemporaryPassword, f.mailer.sent[0].body)

	created, err := f.users.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:"+res.TemporaryPassword, created.PasswordHash())
	assert.Equal(t, "user.create", f.audit.calls[0].action)
	assert.Equal(t, admin.ID(), f.audit.calls[0].actorID)
	assert.Equal(t, 1, f.policies.refreshes)
}

func TestCreateUser_Rejections(t *testing.T) {
	f := newFixture()
	f.addUser(t, "taken@example.com")
	ctx := context.Background()

	_, err := f.createUser().Execute(ctx, CreateUserCommand{Email: "x@example.com"})
	assert.True(t, apperrors.IsValidationError(err), "no password and no generation")

	_, err = f.createUser().Execute(ctx, CreateUserCommand{Email: "taken@example.com", Password: "longpass1"})
	assert.True(t, apperrors.IsConflictError(err))

	_, err = f.createUser().Execute(ctx, CreateUserCommand{Email: "y@example.com", Password: "longpass1", RoleNames: []string{"pirate"}})
	assert.True(t, apperrors.IsValidationError(err))
	_, err = f.users.GetByEmail(ctx, "y@example.com")
	assert.Error(t, err)
	assert.Empty(t, f.mailer.sent)
}

func TestUpdateUser_RecordsChanges(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, "admin@example.com")
	target := f.addUser(t, "t@example.com")
	_, err := f.login().Execute(context.Background(), LoginCommand{Email: "t@example.com", Password: "secret123"})
	require.NoError(t, err)
	f.audit.calls = nil
	uc := NewUpdateUserUseCase(mockTransactor{}, f.users, f.sessions, f.roles, f.audit, f.log)

	name := "Renamed"
	inactive := false
	out, err := uc.Execute(context.Background(), UpdateUserCommand{
		RequestMeta: common.RequestMeta{ActorID: admin.ID()},
		UserID:      target.ID(),
		DisplayName: &name,
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", out.DisplayName)
	assert.False(t, out.IsActive)
	assert.Zero(t, f.sessions.live(target.ID()))

	require.Len(t, f.audit.calls, 1)
	changes := f.audit.calls[0].details["changes"].(map[string]any)
	assert.Equal(t, map[string]any{"from": "Test User", "to": "Renamed"}, changes["display_name"])
	assert.Equal(t, map[string]any{"from": true, "to": false}, changes["is_active"])

	_, err = uc.Execute(context.Background(), UpdateUserCommand{UserID: target.ID(), DisplayName: &name})
	require.NoError(t, err)
	assert.Len(t, f.audit.calls, 1, "no-op update is not audited")
}

func TestDeactivateAndReactivate(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, "admin@example.com")
	target := f.addUser(t, "t@example.com")
	ctx := context.Background()
	_, err := f.login().Execute(ctx, LoginCommand{Email: "t@example.com", Password: "secret123"})
	require.NoError(t, err)
	deactivate := NewDeactivateUserUseCase(mockTransactor{}, f.users, f.sessions, f.audit, f.policies, f.log)
	reactivate := NewReactivateUserUseCase(mockTransactor{}, f.users, f.audit, f.policies, f.log)
	meta := common.RequestMeta{ActorID: admin.ID()}

	err = deactivate.Execute(ctx, SetUserActiveCommand{RequestMeta: meta, UserID: admin.ID()})
	assert.True(t, apperrors.IsValidationError(err), "self deactivation")

	require.NoError(t, deactivate.Execute(ctx, SetUserActiveCommand{RequestMeta: meta, UserID: target.ID()}))
	assert.False(t, target.IsActive())
	assert.Zero(t, f.sessions.live(target.ID()))
	assert.Equal(t, 1, f.policies.refreshes, "self deactivation does not refresh")

	require.NoError(t, reactivate.Execute(ctx, SetUserActiveCommand{RequestMeta: meta, UserID: target.ID()}))
	assert.True(t, target.IsActive())
	assert.Equal(t, 2, f.policies.refreshes)

	err = reactivate.Execute(ctx, SetUserActiveCommand{RequestMeta: meta, UserID: 999})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestAdminResetPassword(t *testing.T) {
	f := newFixture()
	target := f.addUser(t, "t@example.com")
	uc := NewAdminResetPasswordUseCase(f.users, f.tokens, f.mailer, f.audit, f.settings, f.log)

	require.NoError(t, uc.Execute(context.Background(), SetUserActiveCommand{RequestMeta: common.RequestMeta{ActorID: 1}, UserID: target.ID()}))
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "reset", f.mailer.sent[0].kind)
	assert.Equal(t, []string{"user.password_reset"}, f.audit.actions())
}

func TestListAndGetUsers(t *testing.T) {
	f := newFixture()
	a := f.addUser(t, "alice@example.com", permission.AgentRoleName)
	b := f.addUser(t, "bob@example.com")
	require.NoError(t, b.Deactivate(a.ID()))

	active := true
	page, err := NewListUsersUseCase(f.users, f.roles, f.log).Execute(context.Background(), ListUsersQuery{IsActive: &active, PageSize: 500})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice@example.com", page.Items[0].Email)
	assert.Equal(t, []string{permission.AgentRoleName}, page.Items[0].Roles)
	assert.Equal(t, maxPageSize, page.PageSize)
	assert.Equal(t, 1, page.Page)

	got, err := NewGetUserUseCase(f.users, f.roles, f.log).Execute(context.Background(), b.ID())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, []string{}, got.Roles)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture()
	uc := NewEnsureAdminUseCase(mockTransactor{}, f.users, f.roles, plainHasher{}, f.audit, f.policies, f.log)
	cmd := EnsureAdminCommand{Email: "root@example.com", Password: "changeme1", DisplayName: "Administrator"}

	created, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, created)

	u, err := f.users.GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, []uint{f.roles.roles[permission.AdminRoleName].ID()}, f.roles.userRoles[u.ID()])
	assert.Equal(t, 1, f.policies.refreshes)
}
