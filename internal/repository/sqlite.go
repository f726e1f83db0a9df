package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps highscores in a local sqlite file for the terminal
// client.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS highscore (
	game_session_id	TEXT PRIMARY KEY,
	player			TEXT,
	difficulty		TEXT NOT NULL,
	seconds			INTEGER NOT NULL,
	duration_ms		INTEGER NOT NULL,
	finished_at		TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS highscore_ranking
	ON highscore (difficulty, seconds, duration_ms);`)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// OpenSQLite opens (creating if needed) the sqlite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, func() error, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, err
	}
	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return s, db.Close, nil
}

func (s *SQLiteStore) RecordWin(ctx context.Context, h Highscore) error {
	_, err := s.db.ExecContext(ctx, insertHighscore, named(recordArgs(h))...)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrDuplicate
	}
	return err
}

func (s *SQLiteStore) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query, args := filter.query()
	rows, err := s.db.QueryContext(ctx, query, named(args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	highscores := make([]Highscore, 0)
	for rows.Next() {
		var h Highscore
		if err := rows.Scan(
			&h.GameSessionID,
			&h.Player,
			&h.Difficulty,
			&h.Seconds,
			&h.DurationMs,
			&h.FinishedAt,
		); err != nil {
			return nil, err
		}
		highscores = append(highscores, h)
	}
	return highscores, rows.Err()
}

func named(args map[string]any) []any {
	out := make([]any, 0, len(args))
	for k, v := range args {
		out = append(out, sql.Named(k, v))
	}
	return out
}
