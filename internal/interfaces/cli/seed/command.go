package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/meidasupport/supportdesk/internal/infrastructure/config"
	"github.com/meidasupport/supportdesk/internal/infrastructure/database"
	"github.com/meidasupport/supportdesk/internal/infrastructure/migration"
	httpRouter "github.com/meidasupport/supportdesk/internal/interfaces/http"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

var (
	env        string
	configPath string
	seedFile   string
	migrate    bool
)

func NewCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the permission catalog, roles, the admin account and technicians",
		Long: `Seed upserts the permission catalog and system roles, restores any missing core
permissions, creates the bootstrap admin when absent and upserts roles and technicians
listed in the seed file. Running it again is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), version)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "Seed YAML file with admin, roles and technicians")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run database migrations before seeding")

	return cmd
}

func run(ctx context.Context, out io.Writer, version string) error {
	cfg, err := config.Load(config.Options{Env: env, ConfigFile: configPath})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	var file *File
	if seedFile != "" {
		if file, err = ReadFile(seedFile); err != nil {
			return err
		}
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if migrate {
		if err := migration.NewManager(cfg.Database.Driver, env, log).Migrate(database.Get()); err != nil {
			return err
		}
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, version, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	report, err := container.Seed(ctx, file.Plan(cfg.Admin))
	if err != nil {
		return err
	}

	printReport(out, report)
	return nil
}

func printReport(out io.Writer, r *httpRouter.SeedReport) {
	fmt.Fprintf(out, "permissions upserted: %d\n", r.RBAC.PermissionsUpserted)
	fmt.Fprintf(out, "roles created:        %v\n", r.RBAC.RolesCreated)
	fmt.Fprintf(out, "roles updated:        %v\n", r.RBAC.RolesUpdated)
	fmt.Fprintf(out, "admin created:        %t\n", r.AdminCreated)
	if r.Technicians != nil {
		fmt.Fprintf(out, "technicians:          %d created, %d updated\n", r.Technicians.Created, r.Technicians.Updated)
	}
}
