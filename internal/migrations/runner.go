package migrations

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Conn is the slice of database behavior the runner needs. Production code
// passes a GORM connection via NewRunner; tests substitute a fake.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...interface{}) error
	ScanInt(ctx context.Context, sql string, args ...interface{}) (int, error)
}

// Migration is one versioned schema change. Up and Down are ordered statement
// lists; every statement must be safe to re-run (IF NOT EXISTS or an
// exception guard) so concurrent or repeated application no-ops.
type Migration struct {
	Version int
	Name    string
	Up      []string
	Down    []string
}

// Runner applies registered migrations in version order and records them in
// a schema_migrations bookkeeping table.
type Runner struct {
	conn       Conn
	migrations []Migration
}

// NewRunner builds a runner over a GORM connection using the default registry.
func NewRunner(db *gorm.DB) *Runner {
	return &Runner{conn: gormConn{db: db}, migrations: Registry()}
}

// NewRunnerWith builds a runner over an explicit connection and migration set.
func NewRunnerWith(conn Conn, migrations []Migration) *Runner {
	return &Runner{conn: conn, migrations: migrations}
}

const bookkeepingDDL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INT PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Up applies every unapplied migration in ascending version order. A failing
// statement halts the run; already-applied versions are skipped, so re-running
// Up (including from a second process) is a no-op.
func (r *Runner) Up(ctx context.Context) error {
	if err := r.conn.Exec(ctx, bookkeepingDDL); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range r.migrations {
		applied, err := r.applied(ctx, m.Version)
		if err != nil {
			return fmt.Errorf("migration %d (%s): check applied: %w", m.Version, m.Name, err)
		}
		if applied {
			continue
		}

		for _, stmt := range m.Up {
			if err := r.conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
			}
		}

		err = r.conn.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING`,
			m.Version, m.Name)
		if err != nil {
			return fmt.Errorf("migration %d (%s): record: %w", m.Version, m.Name, err)
		}
		log.Printf("applied migration %d (%s)", m.Version, m.Name)
	}
	return nil
}

// Down reverts applied migrations with Version > target, newest first, and
// removes their bookkeeping rows. Down(ctx, 0) reverts everything. Shared
// enum types are deliberately left in place by the per-migration Down lists.
func (r *Runner) Down(ctx context.Context, target int) error {
	if err := r.conn.Exec(ctx, bookkeepingDDL); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for i := len(r.migrations) - 1; i >= 0; i-- {
		m := r.migrations[i]
		if m.Version <= target {
			continue
		}
		applied, err := r.applied(ctx, m.Version)
		if err != nil {
			return fmt.Errorf("migration %d (%s): check applied: %w", m.Version, m.Name, err)
		}
		if !applied {
			continue
		}

		for _, stmt := range m.Down {
			if err := r.conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("revert %d (%s): %w", m.Version, m.Name, err)
			}
		}

		if err := r.conn.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.Version); err != nil {
			return fmt.Errorf("revert %d (%s): unrecord: %w", m.Version, m.Name, err)
		}
		log.Printf("reverted migration %d (%s)", m.Version, m.Name)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context, version int) (bool, error) {
	n, err := r.conn.ScanInt(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = $1`, version)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type gormConn struct {
	db *gorm.DB
}

func (c gormConn) Exec(ctx context.Context, sql string, args ...interface{}) error {
	return c.db.WithContext(ctx).Exec(sql, args...).Error
}

func (c gormConn) ScanInt(ctx context.Context, sql string, args ...interface{}) (int, error) {
	var n int
	err := c.db.WithContext(ctx).Raw(sql, args...).Scan(&n).Error
	return n, err
}
