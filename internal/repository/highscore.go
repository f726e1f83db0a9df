package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper/internal/session"
)

var ErrDuplicate = errors.New("highscore already recorded")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Highscore struct {
	GameSessionID uuid.UUID `json:"game_session_id" db:"game_session_id"`
	Player        *string   `json:"player" db:"player"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	Seconds       int       `json:"seconds" db:"seconds"`
	DurationMs    int64     `json:"duration_ms" db:"duration_ms"`
	FinishedAt    time.Time `json:"finished_at" db:"finished_at"`
}

// FromResult converts a won game. An empty player name is stored as NULL.
func FromResult(r session.Result) Highscore {
	var player *string
	if r.Player != "" {
		player = &r.Player
	}
	return Highscore{
		GameSessionID: r.SessionID,
		Player:        player,
		Difficulty:    r.Difficulty.String(),
		Seconds:       r.Seconds,
		DurationMs:    r.Duration.Milliseconds(),
		FinishedAt:    r.FinishedAt,
	}
}

// Store persists won games.
type Store interface {
	// RecordWin returns ErrDuplicate if the game was already recorded.
	RecordWin(ctx context.Context, h Highscore) error
	GetHighscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error)
}

type HighscoreFilter struct {
	Player     *string
	Difficulty *string
	Limit      int
}

// WhereClause uses @name placeholders, which both pgx and sqlite accept.
func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Player != nil {
		clauses = append(clauses, "player = @player")
		args["player"] = *f.Player
	}
	if f.Difficulty != nil {
		clauses = append(clauses, "difficulty = @difficulty")
		args["difficulty"] = *f.Difficulty
	}
	return strings.Join(clauses, " AND "), args
}

func (f HighscoreFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}

func (f HighscoreFilter) query() (string, pgx.NamedArgs) {
	query := `
	SELECT
		game_session_id,
		player,
		difficulty,
		seconds,
		duration_ms,
		finished_at
	FROM highscore
	`

	whereClause, args := f.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY seconds, duration_ms, finished_at LIMIT @limit;"
	args["limit"] = f.limit()
	return query, args
}

func recordArgs(h Highscore) pgx.NamedArgs {
	return pgx.NamedArgs{
		"game_session_id": h.GameSessionID,
		"player":          h.Player,
		"difficulty":      h.Difficulty,
		"seconds":         h.Seconds,
		"duration_ms":     h.DurationMs,
		"finished_at":     h.FinishedAt,
	}
}

const insertHighscore = `
	INSERT INTO highscore (
		game_session_id, player, difficulty, seconds, duration_ms, finished_at
	)
	VALUES (
		@game_session_id, @player, @difficulty, @seconds, @duration_ms, @finished_at
	);`
