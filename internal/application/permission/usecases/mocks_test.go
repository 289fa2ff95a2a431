package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
)

type mockTransactor struct{}

func (mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRoleRepository struct {
	roles     map[uint]*permission.Role
	userRoles map[uint][]uint
	nextID    uint
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{roles: map[uint]*permission.Role{}, userRoles: map[uint][]uint{}, nextID: 1}
}

func (m *mockRoleRepository) seed(r *permission.Role) *permission.Role {
	_ = m.Create(context.Background(), r)
	return r
}

func (m *mockRoleRepository) Create(ctx context.Context, r *permission.Role) error {
	if err := r.SetID(m.nextID); err != nil {
		return err
	}
	m.roles[m.nextID] = r
	m.nextID++
	return nil
}

func (m *mockRoleRepository) Update(ctx context.Context, r *permission.Role) error {
	m.roles[r.ID()] = r
	return nil
}

func (m *mockRoleRepository) Delete(ctx context.Context, id uint) error {
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepository) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, permission.ErrRoleNotFound
	}
	return r, nil
}

func (m *mockRoleRepository) GetByName(ctx context.Context, name string) (*permission.Role, error) {
	for _, r := range m.roles {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, permission.ErrRoleNotFound
}

func (m *mockRoleRepository) GetByIDs(ctx context.Context, ids []uint) ([]*permission.Role, error) {
	var out []*permission.Role
	for _, id := range ids {
		if r, ok := m.roles[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRoleRepository) GetByNames(ctx context.Context, names []string) ([]*permission.Role, error) {
	var out []*permission.Role
	for _, n := range names {
		if r, err := m.GetByName(ctx, n); err == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRoleRepository) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.RoleListItem, int64, error) {
	var out []*permission.RoleListItem
	for _, r := range m.sorted() {
		if filter.Query != "" && !strings.Contains(strings.ToLower(r.Name()+" "+r.Description()), strings.ToLower(filter.Query)) {
			continue
		}
		n, _ := m.CountUsers(ctx, r.ID())
		out = append(out, &permission.RoleListItem{Role: r, UserCount: n})
	}
	return out, int64(len(out)), nil
}

func (m *mockRoleRepository) ListAll(ctx context.Context) ([]*permission.Role, error) {
	return m.sorted(), nil
}

func (m *mockRoleRepository) sorted() []*permission.Role {
	out := make([]*permission.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (m *mockRoleRepository) CountUsers(ctx context.Context, roleID uint) (int64, error) {
	var n int64
	for _, ids := range m.userRoles {
		for _, id := range ids {
			if id == roleID {
				n++
			}
		}
	}
	return n, nil
}

func (m *mockRoleRepository) GetUserRoles(ctx context.Context, userID uint) ([]*permission.Role, error) {
	return m.GetByIDs(ctx, m.userRoles[userID])
}

func (m *mockRoleRepository) ReplaceUserRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	m.userRoles[userID] = append([]uint(nil), roleIDs...)
	return nil
}

func (m *mockRoleRepository) ListUserRoleNames(ctx context.Context) (map[uint][]string, error) {
	out := map[uint][]string{}
	for uid := range m.userRoles {
		roles, _ := m.GetUserRoles(ctx, uid)
		out[uid] = permission.RoleNames(roles)
	}
	return out, nil
}

// catalogPermissionRepository serves the full catalog.
type catalogPermissionRepository struct {
	missing map[string]bool
}

func (m *catalogPermissionRepository) all() []*permission.Permission {
	var out []*permission.Permission
	for i, e := range permission.Catalog() {
		if m.missing[e.Code] {
			continue
		}
		out = append(out, permission.ReconstructPermission(uint(i+1), e.Code, e.Description, e.Category))
	}
	return out
}

func (m *catalogPermissionRepository) Upsert(ctx context.Context, p *permission.Permission) error {
	return nil
}

func (m *catalogPermissionRepository) List(ctx context.Context) ([]*permission.Permission, error) {
	return m.all(), nil
}

func (m *catalogPermissionRepository) GetByCodes(ctx context.Context, codes []string) ([]*permission.Permission, error) {
	want := map[string]bool{}
	for _, c := range codes {
		want[c] = true
	}
	var out []*permission.Permission
	for _, p := range m.all() {
		if want[p.Code()] {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockUserRepository struct {
	user.Repository
	users map[uint]*user.User
}

func newMockUserRepository(ids ...uint) *mockUserRepository {
	m := &mockUserRepository{users: map[uint]*user.User{}}
	for _, id := range ids {
		email, _ := vo.NewEmail(fmt.Sprintf("user%d@example.com", id))
		u, _ := user.ReconstructUser(id, email, "hash", "User", true, false, nil, nil, time.Now(), time.Now())
		m.users[id] = u
	}
	return m
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

type mockAuditRecorder struct {
	actions []string
	details []map[string]any
}

func (m *mockAuditRecorder) RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error {
	m.actions = append(m.actions, action)
	m.details = append(m.details, details)
	return nil
}

type mockPolicyRefresher struct {
	refreshes int
}

func (m *mockPolicyRefresher) Refresh(ctx context.Context) {
	m.refreshes++
}
