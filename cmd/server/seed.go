package main

import (
	"fmt"
	"os"

	"github.com/avatarctic/petpal/internal/infrastructure/repositories"
	"github.com/avatarctic/petpal/internal/infrastructure/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample service providers and city information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, database, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(cfg.Server.MigrationsPath); err != nil {
			return err
		}

		seeder := seed.NewSeeder(
			repositories.NewProviderRepository(database, logger),
			repositories.NewCityInfoRepository(database, logger),
			logger,
		)
		res, err := seeder.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "inserted %d providers and %d city articles\n", res.Providers, res.CityInfo)
		return nil
	},
}
