package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/wanderchat/internal/profile"
	"github.com/hrygo/wanderchat/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database specified by its database driver name and a
// driver-specific data source name, usually consisting of at least a
// database name and connection information.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil || profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// Connect to the database with some sane settings:
	// - No foreign key constraints.
	// - Journal mode set to WAL: it prevents locking issues between the single writer and readers.
	//
	// Notes:
	// - When using the `modernc.org/sqlite` driver, each pragma must be prefixed with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// SQLite: single connection is optimal with WAL
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		user_query TEXT NOT NULL,
		llm_response TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		created_ts BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_session_created ON interactions (session_id, created_ts)`,
	`CREATE TABLE IF NOT EXISTS migration_history (
		id INTEGER PRIMARY KEY,
		version TEXT NOT NULL,
		updated_ts BIGINT NOT NULL
	)`,
}

func (d *DB) ApplySchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}
	return nil
}

func (d *DB) FindMigrationVersion(ctx context.Context) (string, error) {
	var version string
	err := d.db.QueryRowContext(ctx, `SELECT version FROM migration_history WHERE id = 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to find migration version")
	}
	return version, nil
}

func (d *DB) UpsertMigrationVersion(ctx context.Context, version string) error {
	stmt := `INSERT INTO migration_history (id, version, updated_ts) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET version = excluded.version, updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, version, time.Now().Unix()); err != nil {
		return errors.Wrap(err, "failed to upsert migration version")
	}
	return nil
}
