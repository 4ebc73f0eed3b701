package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeConn records executed SQL and simulates the schema_migrations table.
type fakeConn struct {
	executed []string
	applied  map[int]bool
	failOn   string
}

func newFakeConn() *fakeConn {
	return &fakeConn{applied: map[int]bool{}}
}

func (f *fakeConn) Exec(ctx context.Context, sql string, args ...interface{}) error {
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return errors.New("boom")
	}
	f.executed = append(f.executed, sql)
	if strings.Contains(sql, "INSERT INTO schema_migrations") && len(args) > 0 {
		f.applied[args[0].(int)] = true
	}
	if strings.Contains(sql, "DELETE FROM schema_migrations") && len(args) > 0 {
		delete(f.applied, args[0].(int))
	}
	return nil
}

func (f *fakeConn) ScanInt(ctx context.Context, sql string, args ...interface{}) (int, error) {
	if len(args) > 0 && f.applied[args[0].(int)] {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeConn) countContaining(substr string) int {
	n := 0
	for _, sql := range f.executed {
		if strings.Contains(sql, substr) {
			n++
		}
	}
	return n
}

var testMigrations = []Migration{
	{Version: 1, Name: "first", Up: []string{"CREATE TABLE a"}, Down: []string{"DROP TABLE a"}},
	{Version: 2, Name: "second", Up: []string{"CREATE TABLE b", "CREATE INDEX b_i"}, Down: []string{"DROP TABLE b"}},
}

func TestUpAppliesInOrderAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConn()
	r := NewRunnerWith(conn, testMigrations)

	if err := r.Up(ctx); err != nil {
		t.Fatalf("up: %v", err)
	}

	var ddl []string
	for _, sql := range conn.executed {
		if strings.HasPrefix(sql, "CREATE TABLE") || strings.HasPrefix(sql, "CREATE INDEX") {
			ddl = append(ddl, sql)
		}
	}
	want := []string{"CREATE TABLE a", "CREATE TABLE b", "CREATE INDEX b_i"}
	if len(ddl) != len(want) {
		t.Fatalf("expected %d DDL statements, got %d: %v", len(want), len(ddl), ddl)
	}
	for i := range want {
		if ddl[i] != want[i] {
			t.Errorf("statement %d: want %q, got %q", i, want[i], ddl[i])
		}
	}

	// Second run must skip everything already applied.
	if err := r.Up(ctx); err != nil {
		t.Fatalf("second up: %v", err)
	}
	if n := conn.countContaining("CREATE TABLE a"); n != 1 {
		t.Errorf("migration 1 applied %d times, want 1", n)
	}
}

func TestUpHaltsOnFailure(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConn()
	conn.failOn = "CREATE TABLE b"
	r := NewRunnerWith(conn, testMigrations)

	err := r.Up(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "second") {
		t.Errorf("error should name the failing migration, got %v", err)
	}
	// The first migration is recorded; the failing one is not.
	if !conn.applied[1] {
		t.Error("migration 1 should be recorded")
	}
	if conn.applied[2] {
		t.Error("failed migration must not be recorded")
	}
}

func TestDownRevertsNewestFirstAboveTarget(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConn()
	r := NewRunnerWith(conn, testMigrations)

	if err := r.Up(ctx); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := r.Down(ctx, 1); err != nil {
		t.Fatalf("down: %v", err)
	}

	if conn.countContaining("DROP TABLE b") != 1 {
		t.Error("expected migration 2 reverted")
	}
	if conn.countContaining("DROP TABLE a") != 0 {
		t.Error("migration 1 is at or below target and must stay")
	}
	if conn.applied[2] {
		t.Error("bookkeeping row for migration 2 should be gone")
	}

	// Up again restores only what was reverted.
	if err := r.Up(ctx); err != nil {
		t.Fatalf("up after down: %v", err)
	}
	if n := conn.countContaining("CREATE TABLE b"); n != 2 {
		t.Errorf("migration 2 should re-apply once, total executions = %d", n)
	}
	if n := conn.countContaining("CREATE TABLE a"); n != 1 {
		t.Errorf("migration 1 should not re-apply, total executions = %d", n)
	}
}

func TestDownSkipsUnapplied(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConn()
	r := NewRunnerWith(conn, testMigrations)

	if err := r.Down(ctx, 0); err != nil {
		t.Fatalf("down on empty db: %v", err)
	}
	if conn.countContaining("DROP TABLE") != 0 {
		t.Error("nothing was applied, nothing should be dropped")
	}
}

func TestRegistryVersionsStrictlyIncrease(t *testing.T) {
	prev := 0
	for _, m := range Registry() {
		if m.Version <= prev {
			t.Errorf("migration %q version %d not after %d", m.Name, m.Version, prev)
		}
		prev = m.Version
		if len(m.Up) == 0 || len(m.Down) == 0 {
			t.Errorf("migration %q missing up or down statements", m.Name)
		}
	}
}

func TestDownNeverDropsSharedEnums(t *testing.T) {
	for _, m := range Registry() {
		for _, stmt := range m.Down {
			if strings.Contains(strings.ToUpper(stmt), "DROP TYPE") {
				t.Errorf("migration %q down drops an enum type: %s", m.Name, stmt)
			}
		}
	}
}

func TestEnumCreationIsGuarded(t *testing.T) {
	for _, m := range Registry() {
		for _, stmt := range m.Up {
			if strings.Contains(stmt, "CREATE TYPE") &&
				!strings.Contains(stmt, "duplicate_object") {
				t.Errorf("migration %q creates a type without an idempotence guard", m.Name)
			}
		}
	}
}
