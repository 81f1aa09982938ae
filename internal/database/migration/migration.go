// Package migration creates the save journal schema on startup.
package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"
)

// sentinelQuery reports whether the journal table exists. Its presence means
// the whole schema has been applied.
const sentinelQuery = "SELECT to_regclass('public.snippets') IS NOT NULL"

type step struct {
	name string
	sql  string
}

var schema = []step{
	{"create_table_snippets", `CREATE TABLE IF NOT EXISTS snippets (
  id           UUID        PRIMARY KEY,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  language     TEXT        NOT NULL,
  extension    TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	{"create_index_snippets_language", `CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets (language);`},
	{"create_index_snippets_created_at", `CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets (created_at);`},
}

// EnsureMigrated applies the journal schema in one transaction unless the
// snippets table already exists. Progress is logged as JSON lines.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	return ensureMigrated(ctx, db, loc, dbHost, log.Writer())
}

func ensureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string, w io.Writer) error {
	ev := &events{w: w, loc: loc, host: dbHost, start: time.Now()}
	ev.emit("db_migration_check", "starting", nil)

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		err = fmt.Errorf("failed to check sentinel table: %w", err)
		ev.fail("", err)
		return err
	}
	if exists {
		ev.emit("db_migration_skip", "success", map[string]any{"msg": "schema already exists, skipping migration"})
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("begin migration: %w", err)
		ev.fail("", err)
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, s := range schema {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, s.sql); err != nil {
			err = fmt.Errorf("migration step %s failed: %w", s.name, err)
			ev.fail(s.name, err)
			return err
		}
		ev.emit("db_migration_step", "success", map[string]any{
			"migration_step":   s.name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	if err := tx.Commit(); err != nil {
		err = fmt.Errorf("commit migration: %w", err)
		ev.fail("", err)
		return err
	}
	ev.emit("db_migration_success", "success", nil)
	return nil
}

// events writes migration progress lines sharing host and start time.
type events struct {
	w     io.Writer
	loc   *time.Location
	host  string
	start time.Time
}

func (e *events) fail(stepName string, err error) {
	extra := map[string]any{"error_message": err.Error()}
	if stepName != "" {
		extra["migration_step"] = stepName
	}
	e.emit("db_migration_failed", "error", extra)
}

func (e *events) emit(event, status string, extra map[string]any) {
	level := "info"
	if status == "error" {
		level = "error"
	}
	entry := map[string]any{
		"ts":          time.Now().In(e.loc).Format(time.RFC3339Nano),
		"level":       level,
		"component":   "database",
		"event":       event,
		"status":      status,
		"db_host":     e.host,
		"duration_ms": time.Since(e.start).Milliseconds(),
	}
	for k, v := range extra {
		entry[k] = v
	}

	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	_, _ = e.w.Write(append(b, '\n'))
}
