package main

import (
	"fmt"
	"os"

	config "github.com/avatarctic/petpal/configs"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "petpal",
	Short: "PetPal API server",
	Long:  "PetPal serves pet owner accounts, a local services directory and memoized AI pet care content.",
	// Running the binary without a subcommand starts the server.
	RunE:          func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
	SilenceUsage:  true,
	SilenceErrors: true,
}

func run() int {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "petpal:", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

// bootstrap loads configuration and opens the database shared by every command.
func bootstrap() (*config.Config, *logrus.Logger, *db.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(&cfg.Log)

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Connected to database successfully")
	return cfg, logger, database, nil
}
