package permission

import (
	"context"
	"fmt"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
)

// policySource turns the role tables into casbin rules.
type policySource struct {
	roles permission.RoleRepository
}

// load returns p rules (role, code) and g rules (user, role).
func (s policySource) load(ctx context.Context) ([][]string, [][]string, error) {
	roles, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load roles: %w", err)
	}
	assignments, err := s.roles.ListUserRoleNames(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	var policies [][]string
	for _, r := range roles {
		for _, code := range r.PermissionCodes() {
			policies = append(policies, []string{roleSubject(r.Name()), code})
		}
	}

	var groupings [][]string
	for userID, names := range assignments {
		for _, name := range names {
			groupings = append(groupings, []string{userSubject(userID), roleSubject(name)})
		}
	}
	return policies, groupings, nil
}
