// aplicasctl is the admin CLI for bootstrap and maintenance tasks.
package main

import (
	"fmt"
	"os"

	"aplicas/internal/config"
	"aplicas/internal/infra"

	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	root := &cobra.Command{
		Use:           "aplicasctl",
		Short:         "Herramientas de administracion de ApliCAS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Nivel de log (debug|info|warn|error)")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		infra.SetupLogger(logLevel, "", false)
		return cfg, nil
	}

	root.AddCommand(
		newHashPasswordCmd(),
		newSeedUserCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newExportTransparenciaCmd(loadConfig),
		newDLQCmd(loadConfig),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
