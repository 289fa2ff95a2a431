package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/common"
	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
)

type mockTransactor struct{}

func (mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockUserRepository struct {
	users  map[uint]*user.User
	nextID uint
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[uint]*user.User{}, nextID: 1}
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if err := u.SetID(m.nextID); err != nil {
		return err
	}
	m.nextID++
	m.users[u.ID()] = u
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	if _, ok := m.users[u.ID()]; !ok {
		return user.ErrUserNotFound
	}
	m.users[u.ID()] = u
	return nil
}

func (m *mockUserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	var out []*user.User
	for _, u := range m.users {
		if filter.Query != "" && !strings.Contains(u.Email().String(), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.IsActive != nil && u.IsActive() != *filter.IsActive {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, int64(len(out)), nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

type mockSessionRepository struct {
	sessions map[string]*user.SessionToken
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*user.SessionToken{}}
}

func (m *mockSessionRepository) Create(ctx context.Context, s *user.SessionToken) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*user.SessionToken, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, user.ErrSessionNotFound
}

func (m *mockSessionRepository) Update(ctx context.Context, s *user.SessionToken) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepository) RevokeAllForUser(ctx context.Context, userID uint, keepID string) (int64, error) {
	var n int64
	for _, s := range m.sessions {
		if s.UserID == userID && s.ID != keepID && !s.Revoked {
			s.Revoke()
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepository) RevokeFamily(ctx context.Context, familyID string) (int64, error) {
	var n int64
	for _, s := range m.sessions {
		if s.FamilyID == familyID && !s.Revoked {
			s.Revoke()
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockSessionRepository) live(userID uint) int {
	n := 0
	for _, s := range m.sessions {
		if s.UserID == userID && s.IsValid() {
			n++
		}
	}
	return n
}

type mockRoleRepository struct {
	permission.RoleRepository
	roles     map[string]*permission.Role
	userRoles map[uint][]uint
}

func newMockRoleRepository() *mockRoleRepository {
	m := &mockRoleRepository{roles: map[string]*permission.Role{}, userRoles: map[uint][]uint{}}
	for i, name := range permission.SystemRoleNames() {
		r, err := permission.NewSystemRole(name)
		if err != nil {
			panic(err)
		}
		_ = r.SetID(uint(i + 1))
		m.roles[name] = r
	}
	return m
}

func (m *mockRoleRepository) GetByName(ctx context.Context, name string) (*permission.Role, error) {
	if r, ok := m.roles[name]; ok {
		return r, nil
	}
	return nil, permission.ErrRoleNotFound
}

func (m *mockRoleRepository) GetByNames(ctx context.Context, names []string) ([]*permission.Role, error) {
	var out []*permission.Role
	for _, n := range names {
		if r, ok := m.roles[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRoleRepository) GetUserRoles(ctx context.Context, userID uint) ([]*permission.Role, error) {
	var out []*permission.Role
	for _, id := range m.userRoles[userID] {
		for _, r := range m.roles {
			if r.ID() == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *mockRoleRepository) ReplaceUserRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	m.userRoles[userID] = append([]uint(nil), roleIDs...)
	return nil
}

// plainHasher stores "hashed:" + password. Hashes with the "legacy:" prefix verify and need a rehash.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password && hash != "legacy:"+password {
		return fmt.Errorf("password verification failed")
	}
	return nil
}

func (plainHasher) NeedsRehash(hash string) bool { return strings.HasPrefix(hash, "legacy:") }

type mockTokenService struct {
	issued  int
	refresh map[string]*RefreshClaims
}

func newMockTokenService() *mockTokenService {
	return &mockTokenService{refresh: map[string]*RefreshClaims{}}
}

func (m *mockTokenService) Generate(userID uint, sessionID string) (*TokenPair, error) {
	m.issued++
	refresh := fmt.Sprintf("refresh-%d-%s-%d", userID, sessionID, m.issued)
	m.refresh[refresh] = &RefreshClaims{UserID: userID, SessionID: sessionID}
	return &TokenPair{AccessToken: fmt.Sprintf("access-%d", m.issued), RefreshToken: refresh, ExpiresIn: 900}, nil
}

func (m *mockTokenService) ParseRefresh(token string) (*RefreshClaims, error) {
	if c, ok := m.refresh[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("invalid refresh token")
}

func (m *mockTokenService) GeneratePasswordReset(userID uint, fingerprint string) (string, error) {
	return fmt.Sprintf("reset:%d:%s", userID, fingerprint), nil
}

func (m *mockTokenService) ParsePasswordReset(token string) (uint, string, error) {
	var id uint
	var fp string
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "reset" {
		return 0, "", fmt.Errorf("invalid reset token")
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &id); err != nil {
		return 0, "", err
	}
	fp = parts[2]
	return id, fp, nil
}

// fixedOTP accepts a single code for every secret.
type fixedOTP struct {
	code string
}

func (f fixedOTP) GenerateSecret(accountName string) (string, string, error) {
	return "JBSWY3DPEHPK3PXP", "otpauth://totp/SupportDesk:" + accountName + "?secret=JBSWY3DPEHPK3PXP", nil
}

func (f fixedOTP) Validate(code, secret string) bool { return secret != "" && code == f.code }

type sentMail struct {
	to, kind, body string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) SendPasswordResetEmail(to, resetURL string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, kind: "reset", body: resetURL})
	return nil
}

func (m *mockMailer) SendWelcomeEmail(to, displayName, password string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, kind: "welcome", body: password})
	return nil
}

type auditCall struct {
	actorID uint
	action  string
	target  string
	details map[string]any
}

type mockAuditRecorder struct {
	calls []auditCall
}

func (m *mockAuditRecorder) RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error {
	m.calls = append(m.calls, auditCall{actorID: meta.ActorID, action: action, target: targetID, details: details})
	return nil
}

func (m *mockAuditRecorder) actions() []string {
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.action
	}
	return out
}

type mockPolicyRefresher struct {
	refreshes int
}

func (m *mockPolicyRefresher) Refresh(ctx context.Context) { m.refreshes++ }

type mockAccessResolver struct {
	roleRepo *mockRoleRepository
}

func (m mockAccessResolver) GetUserAccess(ctx context.Context, userID uint) (*apppermission.UserAccess, error) {
	roles, _ := m.roleRepo.GetUserRoles(ctx, userID)
	return &apppermission.UserAccess{
		Roles:       permission.RoleNames(roles),
		Permissions: permission.EffectivePermissions(roles),
		IsAdmin:     permission.HasAdminRole(roles),
	}, nil
}

func mustEmail(s string) *vo.Email {
	e, err := vo.NewEmail(s)
	if err != nil {
		panic(err)
	}
	return e
}
