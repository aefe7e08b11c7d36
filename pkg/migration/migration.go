package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Runner handles migration execution
type Runner struct {
	client questdb.QuestDBClient
	logger logger.Interface
	files  fs.FS
}

// NewRunner creates a new migration runner reading *.up.sql / *.down.sql pairs from files.
func NewRunner(client questdb.QuestDBClient, logger logger.Interface, files fs.FS) *Runner {
	return &Runner{
		client: client,
		logger: logger,
		files:  files,
	}
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	createTableSQL := `CREATE TABLE IF NOT EXISTS schema_migrations (
			id SYMBOL,
			name STRING,
			applied_at TIMESTAMP
		) TIMESTAMP(applied_at) PARTITION BY YEAR;`
	return r.client.Exec(ctx, createTableSQL)
}

// GetAppliedMigrations returns a map of applied migration IDs. The ledger is
// append-only; the latest row for an id decides whether it is applied.
func (r *Runner) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, "SELECT id, name FROM schema_migrations ORDER BY applied_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		applied[id] = !strings.HasPrefix(name, revertedMarker)
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migrations, ordered by file name.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.files, "*.up.sql")
	if err != nil {
		return nil, err
	}

	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		migration, err := r.parseMigrationFiles(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, migration)
	}

	return migrations, nil
}

// parseMigrationFiles parses UP and DOWN migration files
func (r *Runner) parseMigrationFiles(upFilePath string) (Migration, error) {
	upContent, err := fs.ReadFile(r.files, upFilePath)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(upFilePath), ".up.sql")
	downFilePath := strings.TrimSuffix(upFilePath, ".up.sql") + ".down.sql"

	// file names are YYYYMMDDHHMMSS_name
	timestampStr, name, found := strings.Cut(id, "_")
	if !found {
		name = id
	}

	timestamp, err := time.Parse("20060102150405", timestampStr)
	if err != nil {
		timestamp = time.Unix(0, 0)
	}

	var downSQL string
	if downContent, err := fs.ReadFile(r.files, downFilePath); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   downSQL,
	}, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to ensure migration table: %w", err)
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, migration := range migrations {
		if !applied[migration.ID] {
			toApply = append(toApply, migration)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			r.logger.Warn("migration has no up statement", logger.Field{Key: "migration", Value: migration.ID})
			continue
		}

		for _, stmt := range splitStatements(migration.UpSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", migration.ID, err)
			}
		}

		if err := r.client.Exec(ctx,
			"INSERT INTO schema_migrations (id, name, applied_at) VALUES ($1, $2, now())",
			migration.ID, migration.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.ID, err)
		}

		r.logger.Info("applied migration", logger.Field{Key: "migration", Value: migration.ID})
	}

	return nil
}

// MigrateDown reverts the given number of applied migrations, newest first.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return fmt.Errorf("no DOWN SQL found for migration %s - cannot revert", migration.ID)
		}

		for _, stmt := range splitStatements(migration.DownSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to revert migration %s: %w", migration.ID, err)
			}
		}

		// QuestDB has no row DELETE, so the revert is appended to the ledger.
		if err := r.client.Exec(ctx,
			"INSERT INTO schema_migrations (id, name, applied_at) VALUES ($1, $2, now())",
			migration.ID, revertedMarker+migration.Name,
		); err != nil {
			return fmt.Errorf("failed to record revert of %s: %w", migration.ID, err)
		}

		r.logger.Info("reverted migration", logger.Field{Key: "migration", Value: migration.ID})
	}

	return nil
}

const revertedMarker = "reverted:"

// splitStatements splits a migration body on statement-terminating semicolons.
func splitStatements(sql string) []string {
	var statements []string
	for _, stmt := range strings.Split(sql, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
