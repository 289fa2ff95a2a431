package http

import (
	"context"
	"fmt"

	permissionusecases "github.com/meidasupport/supportdesk/internal/application/permission/usecases"
	ticketusecases "github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
)

// SeedPlan is the data loaded by the seed command. An empty Admin.Password skips the admin account.
type SeedPlan struct {
	Admin       usecases.EnsureAdminCommand
	Roles       []permissionusecases.SeedRole
	Technicians []ticketusecases.SeedTechnician
}

// SeedReport summarizes what Seed changed.
type SeedReport struct {
	RBAC         *permissionusecases.SeedRBACResult
	AdminCreated bool
	Technicians  *ticketusecases.SeedTechniciansResult
}

// Seed loads the permission catalog and roles first, since the admin account needs the admin role.
func (c *Container) Seed(ctx context.Context, plan SeedPlan) (*SeedReport, error) {
	report := &SeedReport{}

	rbac, err := c.ucs.seedRBACUC.Execute(ctx, permissionusecases.SeedRBACCommand{Roles: plan.Roles})
	if err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	report.RBAC = rbac

	if plan.Admin.Password != "" {
		created, err := c.ucs.ensureAdminUC.Execute(ctx, plan.Admin)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		report.AdminCreated = created
	} else {
		c.log.Warnw("admin password not set, skipping admin account", "email", plan.Admin.Email)
	}

	if len(plan.Technicians) > 0 {
		techs, err := c.ucs.seedTechniciansUC.Execute(ctx, plan.Technicians)
		if err != nil {
			return nil, fmt.Errorf("seed technicians: %w", err)
		}
		report.Technicians = techs
	}

	return report, nil
}
