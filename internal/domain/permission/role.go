package permission

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

const maxRoleNameLength = 50

// Role is a named bundle of permission codes.
type Role struct {
	id              uint
	name            string
	description     string
	isSystem        bool
	permissionCodes []string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewRole(name, description string, codes []string) (*Role, error) {
	name = strings.TrimSpace(name)
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	now := biztime.NowUTC()
	return &Role{
		name:            name,
		description:     description,
		permissionCodes: normalizeCodes(codes),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// NewSystemRole builds one of the seeded roles with its core permissions.
func NewSystemRole(name string) (*Role, error) {
	if !IsSystemRoleName(name) {
		return nil, fmt.Errorf("%q is not a system role", name)
	}
	r, err := NewRole(name, SystemRoleDescription(name), CorePermissions(name))
	if err != nil {
		return nil, err
	}
	r.isSystem = true
	return r, nil
}

func ReconstructRole(id uint, name, description string, isSystem bool, codes []string, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}
	return &Role{
		id:              id,
		name:            name,
		description:     description,
		isSystem:        isSystem,
		permissionCodes: normalizeCodes(codes),
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func validateRoleName(name string) error {
	if name == "" {
		return fmt.Errorf("role name is required")
	}
	if utf8.RuneCountInString(name) > maxRoleNameLength {
		return fmt.Errorf("role name too long (max %d characters)", maxRoleNameLength)
	}
	return nil
}

func normalizeCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (r *Role) ID() uint             { return r.id }
func (r *Role) Name() string         { return r.name }
func (r *Role) Description() string  { return r.description }
func (r *Role) IsSystem() bool       { return r.isSystem }
func (r *Role) IsAdmin() bool        { return r.name == AdminRoleName }
func (r *Role) CreatedAt() time.Time { return r.createdAt }
func (r *Role) UpdatedAt() time.Time { return r.updatedAt }

func (r *Role) PermissionCodes() []string {
	out := make([]string, len(r.permissionCodes))
	copy(out, r.permissionCodes)
	return out
}

func (r *Role) HasCode(code string) bool {
	i := sort.SearchStrings(r.permissionCodes, code)
	return i < len(r.permissionCodes) && r.permissionCodes[i] == code
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == r.name {
		return nil
	}
	if r.isSystem {
		return ErrSystemRoleRename
	}
	if err := validateRoleName(name); err != nil {
		return err
	}
	r.name = name
	r.updatedAt = biztime.NowUTC()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = biztime.NowUTC()
}

// ReplacePermissions swaps the role's code set. A system role must keep its core permissions.
func (r *Role) ReplacePermissions(codes []string) error {
	next := normalizeCodes(codes)
	if r.isSystem {
		if missing := MissingCore(r.name, next); len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrSystemRoleCoreShrink, strings.Join(missing, ", "))
		}
	}
	r.permissionCodes = next
	r.updatedAt = biztime.NowUTC()
	return nil
}

// CheckDeletable refuses deleting system roles and roles that still have users.
func (r *Role) CheckDeletable(userCount int64) error {
	if r.isSystem {
		return ErrSystemRoleDelete
	}
	if userCount > 0 {
		return fmt.Errorf("%w: %d user(s)", ErrRoleInUse, userCount)
	}
	return nil
}

// MissingCore returns the core permissions of roleName absent from codes.
func MissingCore(roleName string, codes []string) []string {
	have := make(map[string]bool, len(codes))
	for _, c := range codes {
		have[c] = true
	}
	var missing []string
	for _, c := range CorePermissions(roleName) {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
