package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdto "github.com/meidasupport/supportdesk/internal/application/audit/dto"
	auditusecases "github.com/meidasupport/supportdesk/internal/application/audit/usecases"
	"github.com/meidasupport/supportdesk/internal/application/common"
	permissiondto "github.com/meidasupport/supportdesk/internal/application/permission/dto"
	permissionusecases "github.com/meidasupport/supportdesk/internal/application/permission/usecases"
	"github.com/meidasupport/supportdesk/internal/application/user/dto"
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/testutil"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockListUsersUC struct {
	got usecases.ListUsersQuery
}

func (m *mockListUsersUC) Execute(_ context.Context, q usecases.ListUsersQuery) (*common.PageResult[*dto.UserDTO], error) {
	m.got = q
	return &common.PageResult[*dto.UserDTO]{
		Items:    []*dto.UserDTO{{ID: 1, Email: "a@example.com"}},
		Total:    1,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

type mockCreateUserUC struct {
	result *usecases.CreateUserResult
	err    error
	got    usecases.CreateUserCommand
}

func (m *mockCreateUserUC) Execute(_ context.Context, cmd usecases.CreateUserCommand) (*usecases.CreateUserResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockSetActiveUC struct {
	err error
	got usecases.SetUserActiveCommand
}

func (m *mockSetActiveUC) Execute(_ context.Context, cmd usecases.SetUserActiveCommand) error {
	m.got = cmd
	return m.err
}

type mockUpdateRoleUC struct {
	got permissionusecases.UpdateRoleCommand
	err error
}

func (m *mockUpdateRoleUC) Execute(_ context.Context, cmd permissionusecases.UpdateRoleCommand) (*permissiondto.RoleDetailDTO, error) {
	m.got = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &permissiondto.RoleDetailDTO{RoleDTO: permissiondto.RoleDTO{ID: cmd.RoleID, Name: "agent"}}, nil
}

type mockDeleteRoleUC struct {
	err error
}

func (m *mockDeleteRoleUC) Execute(_ context.Context, _ permissionusecases.DeleteRoleCommand) error {
	return m.err
}

type mockAssignRolesUC struct {
	got permissionusecases.AssignUserRolesCommand
}

func (m *mockAssignRolesUC) Execute(_ context.Context, cmd permissionusecases.AssignUserRolesCommand) ([]string, error) {
	m.got = cmd
	return []string{"agent", "viewer"}, nil
}

type mockListAuditUC struct {
	got auditusecases.ListAuditLogsQuery
}

func (m *mockListAuditUC) Execute(_ context.Context, q auditusecases.ListAuditLogsQuery) (*auditusecases.ListAuditLogsResult, error) {
	m.got = q
	return &auditusecases.ListAuditLogsResult{Logs: []*auditdto.AuditLogDTO{{ID: 1, Action: "login.success"}}, Total: 1}, nil
}

// =====================================================================
// UserHandler
// =====================================================================

func TestUserHandler_ListUsers_ParsesFilters(t *testing.T) {
	uc := &mockListUsersUC{}
	handler := NewUserHandler(UserUseCases{List: uc}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/users", nil)
	testutil.SetQueryParams(c, map[string]string{"q": "ann", "role": "agent", "is_active": "false"})

	handler.ListUsers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann", uc.got.Query)
	assert.Equal(t, "agent", uc.got.RoleName)
	require.NotNil(t, uc.got.IsActive)
	assert.False(t, *uc.got.IsActive)
	assert.Equal(t, 20, uc.got.PageSize)
}

func TestUserHandler_ListUsers_InvalidActiveFlag(t *testing.T) {
	handler := NewUserHandler(UserUseCases{List: &mockListUsersUC{}}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/users", nil)
	testutil.SetQueryParams(c, map[string]string{"is_active": "maybe"})

	handler.ListUsers(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_CreateUser_GeneratedPassword(t *testing.T) {
	uc := &mockCreateUserUC{result: &usecases.CreateUserResult{
		User:              &dto.UserDTO{ID: 9, Email: "new@example.com"},
		TemporaryPassword: "Tmp12345",
	}}
	handler := NewUserHandler(UserUseCases{Create: uc}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/users", map[string]any{
		"email":             "new@example.com",
		"generate_password": true,
		"roles":             []string{"agent"},
	})
	testutil.SetAuthContext(c, 1)

	handler.CreateUser(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, uc.got.GeneratePassword)
	assert.Equal(t, []string{"agent"}, uc.got.RoleNames)
	assert.Contains(t, w.Body.String(), `"temporary_password":"Tmp12345"`)
}

func TestUserHandler_CreateUser_RequiresPasswordOrGeneration(t *testing.T) {
	uc := &mockCreateUserUC{}
	handler := NewUserHandler(UserUseCases{Create: uc}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/users", map[string]any{"email": "new@example.com"})

	handler.CreateUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, uc.got.Email)
}

func TestUserHandler_DeactivateUser(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"ok", "5", nil, http.StatusOK},
		{"self", "1", errors.NewValidationError("you cannot deactivate your own account"), http.StatusBadRequest},
		{"missing", "77", errors.NewNotFoundError("user not found"), http.StatusNotFound},
		{"bad id", "abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockSetActiveUC{err: tt.err}
			handler := NewUserHandler(UserUseCases{Deactivate: uc}, testutil.NewMockLogger())
			c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/users/"+tt.id+"/deactivate", nil)
			testutil.SetAuthContext(c, 1)
			testutil.SetURLParam(c, "id", tt.id)

			handler.DeactivateUser(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// =====================================================================
// PermissionHandler
// =====================================================================

func TestPermissionHandler_UpdateRole_ReplaceOnlyWhenPresent(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]any
		wantReplace bool
	}{
		{"description only", map[string]any{"description": "Agents"}, false},
		{"with permissions", map[string]any{"permissions": []string{"tickets.read"}}, true},
		{"empty permissions", map[string]any{"permissions": []string{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUpdateRoleUC{}
			handler := NewPermissionHandler(PermissionUseCases{UpdateRole: uc}, testutil.NewMockLogger())
			c, w := testutil.NewTestContext(http.MethodPut, "/api/admin/roles/2", tt.body)
			testutil.SetAuthContext(c, 1)
			testutil.SetURLParam(c, "id", "2")

			handler.UpdateRole(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, uint(2), uc.got.RoleID)
			assert.Equal(t, tt.wantReplace, uc.got.ReplaceCodes)
		})
	}
}

func TestPermissionHandler_UpdateRole_CoreShrinkRejected(t *testing.T) {
	uc := &mockUpdateRoleUC{err: errors.NewValidationError("system role cannot lose core permissions")}
	handler := NewPermissionHandler(PermissionUseCases{UpdateRole: uc}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodPut, "/api/admin/roles/2", map[string]any{"permissions": []string{}})
	testutil.SetURLParam(c, "id", "2")

	handler.UpdateRole(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPermissionHandler_DeleteRole(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"in use", errors.NewConflictError("role is assigned to users"), http.StatusConflict},
		{"system", errors.NewValidationError("system roles cannot be deleted"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPermissionHandler(PermissionUseCases{DeleteRole: &mockDeleteRoleUC{err: tt.err}}, testutil.NewMockLogger())
			c, w := testutil.NewTestContext(http.MethodDelete, "/api/admin/roles/3", nil)
			testutil.SetURLParam(c, "id", "3")

			handler.DeleteRole(c)
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPermissionHandler_AssignUserRoles(t *testing.T) {
	uc := &mockAssignRolesUC{}
	handler := NewPermissionHandler(PermissionUseCases{AssignUserRoles: uc}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodPut, "/api/admin/users/5/roles", map[string]any{"role_ids": []uint{2, 3}})
	testutil.SetAuthContext(c, 1)
	testutil.SetURLParam(c, "id", "5")

	handler.AssignUserRoles(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), uc.got.UserID)
	assert.Equal(t, []uint{2, 3}, uc.got.RoleIDs)
	assert.Contains(t, w.Body.String(), `"roles":["agent","viewer"]`)
}

func TestPermissionHandler_AssignUserRoles_MissingRoleIDs(t *testing.T) {
	handler := NewPermissionHandler(PermissionUseCases{AssignUserRoles: &mockAssignRolesUC{}}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodPut, "/api/admin/users/5/roles", map[string]any{})
	testutil.SetURLParam(c, "id", "5")

	handler.AssignUserRoles(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// AuditHandler
// =====================================================================

func TestAuditHandler_ListAuditLogs(t *testing.T) {
	uc := &mockListAuditUC{}
	handler := NewAuditHandler(uc, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/audit-logs", nil)
	testutil.SetQueryParams(c, map[string]string{"actor_user_id": "3", "action": "login", "target_type": "user"})

	handler.ListAuditLogs(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got.ActorUserID)
	assert.Equal(t, uint(3), *uc.got.ActorUserID)
	assert.Equal(t, "login", uc.got.Action)
	assert.Contains(t, w.Body.String(), "login.success")
}

func TestAuditHandler_ListAuditLogs_InvalidActor(t *testing.T) {
	handler := NewAuditHandler(&mockListAuditUC{}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/audit-logs", nil)
	testutil.SetQueryParams(c, map[string]string{"actor_user_id": "x"})

	handler.ListAuditLogs(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
