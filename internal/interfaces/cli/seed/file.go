package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	permissionusecases "github.com/meidasupport/supportdesk/internal/application/permission/usecases"
	ticketusecases "github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
	httpRouter "github.com/meidasupport/supportdesk/internal/interfaces/http"
	sharedConfig "github.com/meidasupport/supportdesk/internal/shared/config"
)

// File is the seed YAML document.
type File struct {
	Admin       *AdminEntry       `yaml:"admin"`
	Roles       []RoleEntry       `yaml:"roles"`
	Technicians []TechnicianEntry `yaml:"technicians"`
}

type AdminEntry struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
}

type RoleEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

type TechnicianEntry struct {
	Name     string   `yaml:"name"`
	Phone    string   `yaml:"phone"`
	CenterID string   `yaml:"center_id"`
	Skills   []string `yaml:"skills"`
	Inactive bool     `yaml:"inactive"`
}

// ReadFile parses a seed file. Unknown keys are rejected.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	var out File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &out, nil
}

// Plan merges the file with the configured admin. Values in the file win over config.
func (f *File) Plan(admin sharedConfig.AdminConfig) httpRouter.SeedPlan {
	plan := httpRouter.SeedPlan{
		Admin: usecases.EnsureAdminCommand{
			Email:       admin.Email,
			Password:    admin.Password,
			DisplayName: admin.DisplayName,
		},
	}
	if f == nil {
		return plan
	}

	if a := f.Admin; a != nil {
		if a.Email != "" {
			plan.Admin.Email = a.Email
		}
		if a.Password != "" {
			plan.Admin.Password = a.Password
		}
		if a.DisplayName != "" {
			plan.Admin.DisplayName = a.DisplayName
		}
	}

	for _, r := range f.Roles {
		plan.Roles = append(plan.Roles, permissionusecases.SeedRole{
			Name:        r.Name,
			Description: r.Description,
			Permissions: r.Permissions,
		})
	}
	for _, t := range f.Technicians {
		plan.Technicians = append(plan.Technicians, ticketusecases.SeedTechnician{
			Name:     t.Name,
			Phone:    t.Phone,
			CenterID: t.CenterID,
			Skills:   t.Skills,
			Inactive: t.Inactive,
		})
	}
	return plan
}
