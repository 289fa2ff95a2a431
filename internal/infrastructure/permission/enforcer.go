package permission

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

var _ permission.PermissionEnforcer = (*Enforcer)(nil)

// modelText grants a request when the user holds the admin role, or holds a role linked to the code.
const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, "role:admin") || (g(r.sub, p.sub) && r.obj == p.obj)
`

type Enforcer struct {
	enforcer *casbin.Enforcer
	source   policySource
	persist  bool
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer mirrors the policies into the casbin_rule table through the gorm adapter.
func NewEnforcer(db *gorm.DB, roles permission.RoleRepository, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	enforcer.EnableAutoSave(false)

	return &Enforcer{
		enforcer: enforcer,
		source:   policySource{roles: roles},
		persist:  true,
		logger:   log,
	}, nil
}

// NewMemoryEnforcer keeps policies in memory only.
func NewMemoryEnforcer(roles permission.RoleRepository, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{
		enforcer: enforcer,
		source:   policySource{roles: roles},
		logger:   log,
	}, nil
}

func (e *Enforcer) Enforce(userID uint, code string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(userSubject(userID), code)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "user_id", userID, "permission", code)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

// Rebuild replaces every policy with the current role, role permission and user role rows.
func (e *Enforcer) Rebuild(ctx context.Context) error {
	policies, groupings, err := e.source.load(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.enforcer.ClearPolicy()
	if len(policies) > 0 {
		if _, err := e.enforcer.AddPolicies(policies); err != nil {
			return fmt.Errorf("failed to add policies: %w", err)
		}
	}
	if len(groupings) > 0 {
		if _, err := e.enforcer.AddGroupingPolicies(groupings); err != nil {
			return fmt.Errorf("failed to add role assignments: %w", err)
		}
	}
	if e.persist {
		if err := e.enforcer.SavePolicy(); err != nil {
			return fmt.Errorf("failed to save policy: %w", err)
		}
	}

	e.logger.Infow("permission policies rebuilt", "policies", len(policies), "assignments", len(groupings))
	return nil
}

func userSubject(id uint) string {
	return "user:" + strconv.FormatUint(uint64(id), 10)
}

func roleSubject(name string) string {
	return "role:" + name
}
