package daily

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"
)

// Result is one finished daily game.
type Result struct {
	OwnerID    string `json:"-"`
	Date       string `json:"date"`
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
	Total      int    `json:"total"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	PlayerName string    `json:"playerName"`
	Total      int       `json:"total"`
	GameID     string    `json:"gameId"`
	At         time.Time `json:"at"`
}

// Results records daily outcomes, one per owner per date.
type Results interface {
	AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error)
	InsertResult(ctx context.Context, r Result) error
	Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error)
	// Reassign moves results owned by from to to. A date the new owner
	// already has a result for keeps that result.
	Reassign(ctx context.Context, from, to string) error
}

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?",
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult ignores a second result for the same owner and date.
func (s *SQLStore) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, game_id, player_name, total)
		VALUES(?,?,?,?,?)`, r.OwnerID, r.Date, r.GameID, r.PlayerName, r.Total,
	)
	return err
}

// Leaderboard orders by total DESC, then earliest finisher.
func (s *SQLStore) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_name, total, game_id, created_at
		FROM daily_results
		WHERE date=?
		ORDER BY total DESC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		var at string
		if err := rows.Scan(&r.PlayerName, &r.Total, &r.GameID, &at); err != nil {
			return nil, err
		}
		r.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Reassign(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE OR IGNORE daily_results SET owner_id=? WHERE owner_id=?`, to, from)
	return err
}

type memoryResult struct {
	Result
	at time.Time
}

// MemoryStore keeps results in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	results map[string]memoryResult // owner|date
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]memoryResult)}
}

func (m *MemoryStore) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.results[ownerID+"|"+date]
	return ok, nil
}

func (m *MemoryStore) InsertResult(ctx context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.OwnerID + "|" + r.Date
	if _, ok := m.results[key]; !ok {
		m.results[key] = memoryResult{Result: r, at: time.Now().UTC()}
	}
	return nil
}

func (m *MemoryStore) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []memoryResult{}
	for _, r := range m.results {
		if r.Date == date {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].at.Before(rows[j].at)
	})
	out := make([]LBRow, 0, min(limit, len(rows)))
	for _, r := range rows {
		if len(out) == limit {
			break
		}
		out = append(out, LBRow{PlayerName: r.PlayerName, Total: r.Total, GameID: r.GameID, At: r.at})
	}
	return out, nil
}

func (m *MemoryStore) Reassign(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, r := range m.results {
		if r.OwnerID != from {
			continue
		}
		target := to + "|" + r.Date
		if _, taken := m.results[target]; taken {
			continue
		}
		delete(m.results, key)
		r.OwnerID = to
		m.results[target] = r
	}
	return nil
}
