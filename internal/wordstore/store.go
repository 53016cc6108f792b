// internal/wordstore/store.go
//
// SQLite-backed storage for named word lists. Lists are written whole
// (replace-on-save) and read back in their original order.

package wordstore

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
)

// Store wraps the database handle.
type Store struct{ db *sql.DB }

// Open opens the database at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("wordstore: open: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("wordstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save replaces the list called name with the words of seq, keeping their
// order. Blank entries are skipped. It returns the number of words stored.
func (s *Store) Save(ctx context.Context, name, source string, seq iter.Seq[string]) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("wordstore: empty list name")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM words WHERE list_name=?`, name); err != nil {
		return 0, fmt.Errorf("wordstore: clear %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO word_lists (name, source) VALUES (?, ?)
        ON CONFLICT(name) DO UPDATE SET source=excluded.source,
            created_at=strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		name, source,
	); err != nil {
		return 0, fmt.Errorf("wordstore: upsert %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (list_name, position, word) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for w := range seq {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, name, n, w); err != nil {
			return 0, fmt.Errorf("wordstore: insert %q: %w", w, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("wordstore: commit %s: %w", name, err)
	}
	log.Info().Str("list", name).Int("words", n).Msg("word list saved")
	return n, nil
}

// Load reads a stored list. Unknown names return words.ErrUnknownList.
func (s *Store) Load(ctx context.Context, name string) (*words.List, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM word_lists WHERE name=?`, name).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", words.ErrUnknownList, name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word FROM words WHERE list_name=? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		b.WriteString(w)
		b.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words.NewList(name, b.String()), nil
}

// Lists returns the stored lists with their sizes, ordered by name.
func (s *Store) Lists(ctx context.Context) ([]words.Info, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT l.name, COUNT(w.word)
        FROM word_lists l LEFT JOIN words w ON w.list_name = l.name
        GROUP BY l.name
        ORDER BY l.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []words.Info{}
	for rows.Next() {
		var info words.Info
		if err := rows.Scan(&info.Name, &info.Count); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a stored list. Deleting an unknown list is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM words WHERE list_name=?`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM word_lists WHERE name=?`, name); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadInto registers every stored list in reg and returns how many it loaded.
func (s *Store) LoadInto(ctx context.Context, reg *words.Registry) (int, error) {
	infos, err := s.Lists(ctx)
	if err != nil {
		return 0, err
	}
	for _, info := range infos {
		l, err := s.Load(ctx, info.Name)
		if err != nil {
			return 0, err
		}
		reg.Put(l)
	}
	return len(infos), nil
}
