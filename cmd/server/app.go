package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	config "github.com/avatarctic/finance-tracker/configs"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/db"
)

const defaultMigrationsPath = "./migrations"

func migrationsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "migrations",
		Usage:   "directory holding the SQL migrations",
		Value:   defaultMigrationsPath,
		Sources: cli.EnvVars("MIGRATIONS_PATH"),
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "financetracker",
		Usage:          "personal finance tracker API",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					migrationsFlag(),
					&cli.BoolFlag{
						Name:    "skip-migrate",
						Usage:   "do not apply migrations on startup",
						Sources: cli.EnvVars("SKIP_MIGRATE"),
					},
				},
				Action: runServe,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Flags: []cli.Flag{migrationsFlag()},
				// bare "migrate" applies pending migrations
				Action: runMigrateUp,
				Commands: []*cli.Command{
					{Name: "up", Usage: "apply pending migrations", Action: runMigrateUp},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Usage: "number of migrations to roll back", Value: 1},
						},
						Action: runMigrateDown,
					},
					{Name: "version", Usage: "print the current schema version", Action: runMigrateVersion},
				},
			},
		},
	}
}

func runMigrateUp(ctx context.Context, cmd *cli.Command) error {
	return withMigrations(cmd, "migrations applied", func(d *db.Database, path string) (db.MigrationStatus, error) {
		return d.MigrateUp(path)
	})
}

func runMigrateDown(ctx context.Context, cmd *cli.Command) error {
	steps := int(cmd.Int("steps"))
	return withMigrations(cmd, "migrations rolled back", func(d *db.Database, path string) (db.MigrationStatus, error) {
		return d.MigrateDown(path, steps)
	})
}

func runMigrateVersion(ctx context.Context, cmd *cli.Command) error {
	return withMigrations(cmd, "schema version", func(d *db.Database, path string) (db.MigrationStatus, error) {
		return d.MigrationVersion(path)
	})
}

// withMigrations connects to the database, runs op against the migrations
// directory and logs the resulting schema version.
func withMigrations(cmd *cli.Command, msg string, op func(*db.Database, string) (db.MigrationStatus, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.Log)

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	path := cmd.String("migrations")
	status, err := op(database, path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"path":    path,
		"version": status.Version,
		"dirty":   status.Dirty,
		"changed": status.Changed,
	}).Info(msg)
	return nil
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
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
