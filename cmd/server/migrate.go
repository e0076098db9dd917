package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, database, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(cfg.Server.MigrationsPath); err != nil {
			return err
		}
		logger.Info("Migrations applied")
		return nil
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, database, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.MigrateDown(cfg.Server.MigrationsPath, migrateDownSteps); err != nil {
			return err
		}
		logger.WithField("steps", migrateDownSteps).Info("Migrations rolled back")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, database, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close()

		version, dirty, ok, err := database.MigrationVersion(cfg.Server.MigrationsPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stdout, "no migrations applied")
			return nil
		}
		fmt.Fprintf(os.Stdout, "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
