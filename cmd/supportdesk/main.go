package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/meidasupport/supportdesk/internal/interfaces/cli/migrate"
	"github.com/meidasupport/supportdesk/internal/interfaces/cli/seed"
	"github.com/meidasupport/supportdesk/internal/interfaces/cli/server"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "supportdesk",
		Short:        "SupportDesk - appointment booking and ticket dispatch",
		Long:         `SupportDesk serves the public booking API and the admin console, and ships migration and seed tooling.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(version),
		migrate.NewCommand(),
		seed.NewCommand(version),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
