// internal/store/sqlite.go
//
// SQLite implementation of Store.
// A game is three kinds of rows:
//   - yacht_games:  one per game (status, current turn, owner, daily date).
//   - yacht_turns:  one per (game, turn number); dice kept as "1,2,3,4,5".
//   - yacht_scores: one per recorded category, UNIQUE(game_id, category).
// Get replays scores (by recorded_at) into a fresh card and restores the
// current turn row, so the engine never sees SQL types.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/yacht/internal/game"
)

// timeLayout is fixed-width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite is a Store backed by a *sql.DB with the yacht_* tables migrated.
type SQLite struct {
	db *sql.DB
}

// NewSQLiteStore wraps db. Run Migrate first.
func NewSQLiteStore(db *sql.DB) *SQLite { return &SQLite{db: db} }

func (s *SQLite) Save(ctx context.Context, r *Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rec := *r
	stamp(&rec, time.Now().UTC())
	g := rec.Game

	if g.ID() == "" {
		g = g.WithID(uuid.NewString())
		rec.Game = g
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO yacht_games (id, player_name, owner_id, status, current_turn, daily_date, created_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID(), g.Player().Name(), nullString(rec.OwnerID), string(g.Status()), g.TurnNumber(),
			nullString(rec.DailyDate), formatTime(rec.CreatedAt), nullTime(rec.CompletedAt),
		); err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE yacht_games SET status=?, current_turn=?, owner_id=?, completed_at=?
			WHERE id=?`,
			string(g.Status()), g.TurnNumber(), nullString(rec.OwnerID), nullTime(rec.CompletedAt), g.ID(),
		)
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}

	turn := g.Turn()
	var dice any
	if d, ok := turn.Dice(); ok {
		dice = d.String()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO yacht_turns (game_id, turn_number, roll_count, dice_values, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (game_id, turn_number) DO UPDATE SET
			roll_count = excluded.roll_count,
			dice_values = excluded.dice_values,
			updated_at = excluded.updated_at`,
		g.ID(), g.TurnNumber(), turn.RollCount(), dice, formatTime(time.Now().UTC()),
	); err != nil {
		return fmt.Errorf("upsert turn: %w", err)
	}

	for _, sc := range g.ScoreCard().Scores() {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO yacht_scores (game_id, category, points, recorded_at)
			VALUES (?, ?, ?, ?)`,
			g.ID(), string(sc.Category), sc.Points, formatTime(sc.RecordedAt.UTC()),
		); err != nil {
			return fmt.Errorf("insert score %s: %w", sc.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	*r = rec
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*Record, error) {
	var (
		name, status, created, completed string
		owner, daily                     string
		turnNumber                       int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT player_name, COALESCE(owner_id,''), status, current_turn, COALESCE(daily_date,''),
		       created_at, COALESCE(completed_at,'')
		FROM yacht_games WHERE id=?`, id,
	).Scan(&name, &owner, &status, &turnNumber, &daily, &created, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}

	scores, err := s.loadScores(ctx, id)
	if err != nil {
		return nil, err
	}
	turn, err := s.loadTurn(ctx, id, turnNumber)
	if err != nil {
		return nil, err
	}

	g, err := game.Restore(id, name, scores, turn, turnNumber, game.Status(status) == game.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}
	return &Record{
		Game:        g,
		OwnerID:     owner,
		DailyDate:   daily,
		CreatedAt:   parseTime(created),
		CompletedAt: parseTime(completed),
	}, nil
}

func (s *SQLite) loadScores(ctx context.Context, id string) ([]game.Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, points, recorded_at FROM yacht_scores
		WHERE game_id=? ORDER BY recorded_at ASC, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	defer rows.Close()

	var out []game.Score
	for rows.Next() {
		var cat, at string
		var pts int
		if err := rows.Scan(&cat, &pts, &at); err != nil {
			return nil, err
		}
		sc, err := game.NewScore(game.Category(cat), pts, parseTime(at))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLite) loadTurn(ctx context.Context, id string, turnNumber int) (game.Turn, error) {
	var rollCount int
	var dice sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT roll_count, dice_values FROM yacht_turns WHERE game_id=? AND turn_number=?`,
		id, turnNumber,
	).Scan(&rollCount, &dice)
	if errors.Is(err, sql.ErrNoRows) {
		return game.NewTurn(), nil
	}
	if err != nil {
		return game.Turn{}, fmt.Errorf("load turn: %w", err)
	}
	var ds *game.DiceSet
	if dice.Valid && dice.String != "" {
		parsed, err := game.ParseDiceSet(dice.String)
		if err != nil {
			return game.Turn{}, err
		}
		ds = &parsed
	}
	return game.RestoreTurn(rollCount, ds)
}

func (s *SQLite) ListByPlayer(ctx context.Context, playerName string, limit int) ([]Summary, error) {
	return s.list(ctx, `g.player_name = ?`, playerName, limit)
}

func (s *SQLite) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Summary, error) {
	if ownerID == "" {
		return []Summary{}, nil
	}
	return s.list(ctx, `g.owner_id = ?`, ownerID, limit)
}

func (s *SQLite) list(ctx context.Context, where string, arg any, limit int) ([]Summary, error) {
	upper := upperSectionList()
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.player_name, g.status, g.current_turn, COALESCE(g.daily_date,''),
		       g.created_at, COALESCE(g.completed_at,''),
		       COALESCE(SUM(CASE WHEN s.category IN (`+upper+`) THEN s.points END), 0),
		       COALESCE(SUM(CASE WHEN s.category NOT IN (`+upper+`) THEN s.points END), 0)
		FROM yacht_games g
		LEFT JOIN yacht_scores s ON s.game_id = g.id
		WHERE `+where+`
		GROUP BY g.id
		ORDER BY g.created_at DESC
		LIMIT ?`, arg, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum                  Summary
			status, created, fin string
			upperPts, lowerPts   int
		)
		if err := rows.Scan(&sum.ID, &sum.PlayerName, &status, &sum.CurrentTurn, &sum.DailyDate,
			&created, &fin, &upperPts, &lowerPts); err != nil {
			return nil, err
		}
		sum.Status = game.Status(status)
		sum.CreatedAt = parseTime(created)
		if t := parseTime(fin); !t.IsZero() {
			sum.CompletedAt = &t
		}
		sum.TotalScore = upperPts + game.UpperSectionBonusFor(upperPts) + lowerPts
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLite) Reassign(ctx context.Context, from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE yacht_games SET owner_id=? WHERE owner_id=?`, to, from)
	return err
}

func (s *SQLite) CountCompleted(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM yacht_games WHERE status=?`, string(game.StatusCompleted),
	).Scan(&n)
	return n, err
}

// upperSectionList renders 'ONES','TWOS',... for IN clauses. Category
// names are compile-time constants, never user input.
func upperSectionList() string {
	parts := make([]string, 0, 6)
	for _, c := range game.UpperSection() {
		parts = append(parts, "'"+string(c)+"'")
	}
	return strings.Join(parts, ",")
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}
