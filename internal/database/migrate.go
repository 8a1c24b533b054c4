package database

import (
	"context"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migrator handles database schema migrations.
type Migrator struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewMigrator creates a new migrator instance.
func NewMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	return &Migrator{
		pool:   pool,
		logger: logger,
	}
}

// MigrateAll runs all pending embedded migrations.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	return m.migrateFromFS(ctx, migrationFiles, "migrations")
}

// migrateFromFS runs all pending migrations from an embedded filesystem.
func (m *Migrator) migrateFromFS(ctx context.Context, fs embed.FS, dir string) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			migrations = append(migrations, name)
		}
	}
	sort.Strings(migrations)

	for _, filename := range migrations {
		version := extractVersion(filename)
		if version == 0 {
			m.logger.Warn("skipping migration with invalid version", zap.String("file", filename))
			continue
		}

		if applied[version] {
			continue
		}

		m.logger.Info("applying migration", zap.String("file", filename), zap.Int("version", version))

		content, err := fs.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		if err := m.applyMigration(ctx, version, filename, string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", filename, err)
		}

		m.logger.Info("migration applied successfully", zap.String("file", filename))
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table if it doesn't exist.
func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			filename TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := m.pool.Exec(ctx, query)
	return err
}

// getAppliedMigrations returns a map of applied migration versions.
func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := m.pool.Query(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// applyMigration runs a single migration in a transaction.
func (m *Migrator) applyMigration(ctx context.Context, version int, filename, sql string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migration SQL failed: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename) VALUES ($1, $2)",
		version, filename,
	)
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit(ctx)
}

// extractVersion extracts the version number from a migration filename.
// Expected format: NNN_description.up.sql (e.g., 001_initial.up.sql)
func extractVersion(filename string) int {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return 0
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return version
}
