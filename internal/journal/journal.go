// Package journal records completed create/parse runs in a local
// SQLite file, one row per run with terminal status. The journal is an
// audit trail only — engines never read it back to make decisions.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/efestolab/ade/internal/parse"
)

// Terminal run states.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one journal row.
type Run struct {
	ID         string
	Mode       string // "create" or "parse"
	Template   string
	Root       string
	Status     string
	Error      string
	Bindings   []parse.Bindings
	StartedAt  time.Time
	FinishedAt time.Time
}

// Journal is a single-writer handle on the journal database.
type Journal struct {
	db   *sql.DB
	path string
}

// Open creates the journal database (and its parent directory) if
// needed. WAL mode keeps concurrent `ade runs` readers off the writer's
// back.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() // ignore close error
		return nil, fmt.Errorf("set WAL mode on journal: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			mode        TEXT NOT NULL,
			template    TEXT NOT NULL,
			root        TEXT NOT NULL,
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			bindings    TEXT NOT NULL DEFAULT '[]',
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		);
	`); err != nil {
		_ = db.Close() // ignore close error
		return nil, fmt.Errorf("create journal tables: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Record writes one completed run. A missing ID is assigned; a missing
// status defaults to ok.
func (j *Journal) Record(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = StatusOK
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	bindings := "[]"
	if len(run.Bindings) > 0 {
		bindings = oj.JSON(run.Bindings)
	}

	_, err := j.db.Exec(`
		INSERT INTO runs (id, mode, template, root, status, error, bindings, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Template, run.Root, run.Status, run.Error,
		bindings, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the latest runs, newest first.
func (j *Journal) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(`
		SELECT id, mode, template, root, status, error, bindings, started_at, finished_at
		FROM runs ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out []Run
	for rows.Next() {
		var run Run
		var bindings string
		var started, finished int64
		if err := rows.Scan(&run.ID, &run.Mode, &run.Template, &run.Root,
			&run.Status, &run.Error, &bindings, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(started)
		run.FinishedAt = time.UnixMilli(finished)
		run.Bindings = decodeBindings(bindings)
		out = append(out, run)
	}
	return out, rows.Err()
}

func decodeBindings(raw string) []parse.Bindings {
	parsed, err := oj.ParseString(raw)
	if err != nil {
		return nil
	}
	list, ok := parsed.([]any)
	if !ok {
		return nil
	}
	var out []parse.Bindings
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		b := parse.Bindings{}
		for k, v := range m {
			if s, ok := v.(string); ok {
				b[k] = s
			}
		}
		out = append(out, b)
	}
	return out
}

// Close closes the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
