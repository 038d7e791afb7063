package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// MigrationFileContent returns the migration whose file name ends with name,
// e.g. "create_tables.up".
func MigrationFileContent(name string) ([]byte, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(name)))
	if err != nil {
		return nil, fmt.Errorf("invalid migration name: %w", err)
	}

	files, err := migrationNames()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if pattern.MatchString(f) {
			return fs.ReadFile(migrationFiles, migrationsDir+"/"+f)
		}
	}
	return nil, fmt.Errorf("migration file not found")
}

// MigrateUp applies every up migration in order. Up migrations are
// idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	return apply(ctx, db, ".up.sql", false)
}

// MigrateDown applies every down migration in reverse order.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	return apply(ctx, db, ".down.sql", true)
}

func apply(ctx context.Context, db *sql.DB, suffix string, reverse bool) error {
	files, err := migrationNames()
	if err != nil {
		return err
	}

	var selected []string
	for _, f := range files {
		if strings.HasSuffix(f, suffix) {
			selected = append(selected, f)
		}
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(selected)))
	}

	for _, f := range selected {
		content, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+f)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", f, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", f, err)
		}
	}
	return nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
