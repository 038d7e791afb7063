package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/vncsmyrnk/meettogether/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/meettogether/internal/config"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "migrations",
		Usage: "Apply the embedded SQL migrations.",
		Flags: config.DatabaseFlags(),
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply every up migration.",
				Action: migrate(postgres.MigrateUp),
			},
			{
				Name:   "down",
				Usage:  "Apply every down migration in reverse order.",
				Action: migrate(postgres.MigrateDown),
			},
			{
				Name:      "run",
				Usage:     "Execute a single migration file, e.g. create_tables.up.",
				ArgsUsage: "<migration-name>",
				Action:    runOne,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func migrate(apply func(ctx context.Context, db *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := open(c)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := apply(c.Context, db); err != nil {
			return err
		}
		fmt.Println("Migrations executed successfully.")
		return nil
	}
}

func runOne(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("a migration name is required")
	}

	fileContent, err := postgres.MigrationFileContent(name)
	if err != nil {
		return err
	}

	db, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(c.Context, string(fileContent)); err != nil {
		return fmt.Errorf("failed to execute SQL file: %w", err)
	}

	fmt.Println("Migration file executed successfully.")
	return nil
}

func open(c *cli.Context) (*sql.DB, error) {
	cfg := config.FromContext(c)
	slog.SetDefault(cfg.Logger(os.Stderr))
	return postgres.Open(c.Context, cfg.DBDriver, cfg.DSN())
}
