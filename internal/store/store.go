// internal/store/store.go
//
// Persistence contract for yacht games.
// A Record is the engine snapshot plus the bookkeeping the engine does not
// care about (owner, daily date, timestamps). Implementations:
//   - memory.go: map-backed, for development and tests.
//   - sqlite.go: durable, game/turn/score rows reconstructed on Get.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/yacht/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Record is a persisted game with its metadata.
type Record struct {
	Game        game.Game
	OwnerID     string    // user id or anonymous id; empty when unknown
	DailyDate   string    // YYYY-MM-DD for daily games, empty otherwise
	CreatedAt   time.Time // set on first save when zero
	CompletedAt time.Time // set on the save that completes the game
}

// Summary is a listing row.
type Summary struct {
	ID          string      `json:"id"`
	PlayerName  string      `json:"playerName"`
	Status      game.Status `json:"status"`
	CurrentTurn int         `json:"currentTurn"`
	TotalScore  int         `json:"totalScore"`
	DailyDate   string      `json:"dailyDate,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// Store persists game records.
type Store interface {
	// Save inserts a record whose game has no ID (assigning one and
	// CreatedAt), or updates an existing one. Recorded scores are
	// append-only.
	Save(ctx context.Context, r *Record) error

	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// ListByPlayer returns the most recent games for a player name.
	ListByPlayer(ctx context.Context, playerName string, limit int) ([]Summary, error)

	// ListByOwner returns the most recent games for an owner id.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Summary, error)

	// Reassign moves every game owned by from to to.
	Reassign(ctx context.Context, from, to string) error

	// CountCompleted returns the number of finished games.
	CountCompleted(ctx context.Context) (int, error)
}

// Summarize builds a listing row from a record.
func Summarize(r *Record) Summary {
	s := Summary{
		ID:          r.Game.ID(),
		PlayerName:  r.Game.Player().Name(),
		Status:      r.Game.Status(),
		CurrentTurn: r.Game.TurnNumber(),
		TotalScore:  r.Game.Player().TotalScore(),
		DailyDate:   r.DailyDate,
		CreatedAt:   r.CreatedAt,
	}
	if !r.CompletedAt.IsZero() {
		t := r.CompletedAt
		s.CompletedAt = &t
	}
	return s
}

const defaultListLimit = 50

func clampLimit(limit int) int {
	if limit <= 0 || limit > defaultListLimit {
		return defaultListLimit
	}
	return limit
}

// stamp fills the timestamps Save is responsible for.
func stamp(r *Record, now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.Game.IsCompleted() && r.CompletedAt.IsZero() {
		r.CompletedAt = now
	}
}
