package utility

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations brings the schema up to date by running every pending
// *.up.sql file in dir, in filename order. Applied versions are tracked in
// schema_migrations; each pending file runs inside its own transaction so a
// failing migration leaves no partial schema behind.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, dir string) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied := map[string]bool{}
	versions := []string{}
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	pending, err := pendingMigrations(dir, applied)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	for _, file := range pending {
		version := migrationVersion(file)

		script, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", version, err)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", version, err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", version, err)
		}

		log.Printf("[Migration] Applied %s", version)
	}

	log.Printf("[Migration] Schema up to date (%d applied this run)", len(pending))
	return nil
}

// pendingMigrations lists the *.up.sql files in dir whose version has not
// been recorded yet, sorted by filename
func pendingMigrations(dir string, applied map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	pending := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		if applied[migrationVersion(e.Name())] {
			continue
		}
		pending = append(pending, filepath.Join(dir, e.Name()))
	}

	sort.Strings(pending)
	return pending, nil
}

// migrationVersion derives the recorded version from a migration filename
func migrationVersion(file string) string {
	return strings.TrimSuffix(filepath.Base(file), ".up.sql")
}
