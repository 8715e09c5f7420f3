// Package project persists a project's dataset snapshot and its commit
// history in a local SQLite database. The store owns the single-writer
// discipline: Save is the only mutation path and is serialized internally,
// while Load hands out independent snapshots that are safe to diff against
// concurrently.
package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/dataset"
	"github.com/gridmap/gridmap/pkg/errors"
	"github.com/gridmap/gridmap/pkg/reconcile"
)

// Store is the project state store backed by SQLite.
type Store struct {
	sql     *sql.DB
	catalog catalog.Reader

	// mu serializes Save calls; two commits must never race.
	mu sync.Mutex
}

// Open opens (or creates) a project database at the given path and ensures
// the schema exists.
func Open(path string, cat catalog.Reader) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapStore("open", err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.WrapStore("open", err)
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS records (
  id          INTEGER PRIMARY KEY,
  category    TEXT NOT NULL,
  natural_key TEXT NOT NULL,
  fields      TEXT NOT NULL,
  warnings    TEXT,
  UNIQUE(category, natural_key)
);
CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);
CREATE TABLE IF NOT EXISTS commits (
  id           INTEGER PRIMARY KEY,
  committed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  category     TEXT NOT NULL,
  added        INTEGER NOT NULL,
  modified     INTEGER NOT NULL,
  removed      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commits_time ON commits(committed_at);
	`); err != nil {
		return nil, errors.WrapStore("migrate", err)
	}

	return &Store{sql: db, catalog: cat}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Load reads the project's current snapshot. An empty database yields an
// empty snapshot.
func (s *Store) Load(ctx context.Context) (*dataset.Snapshot, error) {
	rows, err := s.sql.QueryContext(ctx,
		"SELECT category, fields, warnings FROM records ORDER BY category, natural_key")
	if err != nil {
		return nil, errors.WrapStore("load", err)
	}
	defer rows.Close()

	byCategory := make(map[string][]dataset.Record)
	for rows.Next() {
		var category, fieldsJSON string
		var warningsJSON sql.NullString
		if err := rows.Scan(&category, &fieldsJSON, &warningsJSON); err != nil {
			return nil, errors.WrapStore("load", err)
		}

		record := dataset.Record{Category: category}
		if err := json.Unmarshal([]byte(fieldsJSON), &record.Fields); err != nil {
			return nil, errors.WrapStore("load", err)
		}
		if warningsJSON.Valid && warningsJSON.String != "" {
			if err := json.Unmarshal([]byte(warningsJSON.String), &record.Warnings); err != nil {
				return nil, errors.WrapStore("load", err)
			}
		}

		byCategory[category] = append(byCategory[category], record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("load", err)
	}

	snap := dataset.NewSnapshot()
	for category, records := range byCategory {
		cat, err := s.catalog.Category(category)
		if err != nil {
			return nil, errors.WrapStore("load", err)
		}
		snap.SetCategory(cat, records)
	}

	return snap, nil
}

// Save replaces the stored snapshot and records the committed changeset in
// the audit trail, in one transaction. Save calls are serialized; a failed
// transaction leaves the previous state intact.
func (s *Store) Save(ctx context.Context, snap *dataset.Snapshot, cs *reconcile.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.WrapStore("save", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return errors.WrapStore("save", err)
	}

	for _, category := range snap.Categories() {
		records := snap.Records(category)
		for _, key := range snap.Keys(category) {
			record := records[key]

			var fieldsJSON, warningsJSON []byte
			if fieldsJSON, err = json.Marshal(record.Fields); err != nil {
				return errors.WrapStore("save", err)
			}
			if len(record.Warnings) > 0 {
				if warningsJSON, err = json.Marshal(record.Warnings); err != nil {
					return errors.WrapStore("save", err)
				}
			}

			if _, err = tx.ExecContext(ctx,
				`INSERT INTO records(category, natural_key, fields, warnings) VALUES(?,?,?,?)`,
				category, string(key), string(fieldsJSON), nullIfEmpty(string(warningsJSON))); err != nil {
				return errors.WrapStore("save", err)
			}
		}
	}

	if cs != nil {
		for _, c := range cs.Categories {
			if !c.HasChanges() {
				continue
			}
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO commits(category, added, modified, removed) VALUES(?,?,?,?)`,
				c.Category, len(c.Added), len(c.Modified), len(c.Removed)); err != nil {
				return errors.WrapStore("save", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.WrapStore("save", err)
	}
	return nil
}

// Commit is one audit-trail entry for a committed category changeset.
type Commit struct {
	CommittedAt time.Time
	Category    string
	Added       int
	Modified    int
	Removed     int
}

// History returns the most recent commits, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sql.QueryContext(ctx,
		`SELECT committed_at, category, added, modified, removed
		 FROM commits ORDER BY committed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapStore("history", err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var c Commit
		var committedAt string
		if err := rows.Scan(&committedAt, &c.Category, &c.Added, &c.Modified, &c.Removed); err != nil {
			return nil, errors.WrapStore("history", err)
		}
		// SQLite CURRENT_TIMESTAMP format, with RFC3339 as fallback.
		if t, perr := time.Parse("2006-01-02 15:04:05", committedAt); perr == nil {
			c.CommittedAt = t
		} else if t, perr := time.Parse(time.RFC3339, committedAt); perr == nil {
			c.CommittedAt = t
		}
		commits = append(commits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("history", err)
	}

	return commits, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
