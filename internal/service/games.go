// internal/service/games.go
//
// Games is the application layer between HTTP handlers and the engine.
// Responsibilities:
//   - Load a game snapshot, apply one engine transition, persist the result.
//   - Serialize concurrent requests for the same game id (per-game mutex).
//   - Reject moves on completed games before they reach the engine.
//   - Pick the dice source: shared seeded stream for daily games, the
//     injected source otherwise.
//   - On completion: bump the owner's account stats and post daily results.

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/yacht/internal/daily"
	"github.com/robalobadob/yacht/internal/game"
	"github.com/robalobadob/yacht/internal/store"
)

// ErrDailyPlayed is returned when an owner already finished today's daily game.
var ErrDailyPlayed = errors.New("daily game already played")

// UserStats receives completed-game totals for account owners.
type UserStats interface {
	RecordCompletion(ctx context.Context, userID string, total int) error
}

// Options configures Games. Zero values pick sensible defaults.
type Options struct {
	Source game.Source      // defaults to game.DefaultSource()
	Daily  daily.Results    // defaults to an in-memory result store
	Users  UserStats        // optional
	Salt   string           // daily seed salt
	Now    func() time.Time // defaults to time.Now
}

// Stats is the global counter view.
type Stats struct {
	CompletedGames int `json:"completedGames"`
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

// Games coordinates game operations over a Store.
type Games struct {
	store store.Store
	src   game.Source
	daily daily.Results
	users UserStats
	salt  string
	now   func() time.Time

	mu    sync.Mutex // guards locks
	locks map[string]*gameLock
}

func New(st store.Store, opts Options) *Games {
	s := &Games{
		store: st,
		src:   opts.Source,
		daily: opts.Daily,
		users: opts.Users,
		salt:  opts.Salt,
		now:   opts.Now,
		locks: make(map[string]*gameLock),
	}
	if s.src == nil {
		s.src = game.DefaultSource()
	}
	if s.daily == nil {
		s.daily = daily.NewMemoryStore()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// lock acquires the mutex for id and returns its release func.
// Entries are dropped once no request holds or waits on them.
func (s *Games) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &gameLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Create starts a regular game.
func (s *Games) Create(ctx context.Context, playerName, ownerID string) (*store.Record, error) {
	g, err := game.New(strings.TrimSpace(playerName))
	if err != nil {
		return nil, err
	}
	rec := &store.Record{Game: g, OwnerID: ownerID}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	log.Info().Str("game", rec.Game.ID()).Str("player", g.Player().Name()).Msg("game created")
	return rec, nil
}

// CreateDaily starts (or resumes) today's daily game for ownerID.
func (s *Games) CreateDaily(ctx context.Context, playerName, ownerID string) (*store.Record, error) {
	date := s.DailyDate()
	if ownerID != "" {
		unlock := s.lock("daily:" + ownerID)
		defer unlock()

		played, err := s.daily.AlreadyPlayed(ctx, ownerID, date)
		if err != nil {
			return nil, fmt.Errorf("check daily: %w", err)
		}
		if played {
			return nil, ErrDailyPlayed
		}
		mine, err := s.store.ListByOwner(ctx, ownerID, 0)
		if err != nil {
			return nil, err
		}
		for _, sum := range mine {
			if sum.DailyDate == date && sum.Status == game.StatusInProgress {
				return s.store.Get(ctx, sum.ID)
			}
		}
	}

	g, err := game.New(strings.TrimSpace(playerName))
	if err != nil {
		return nil, err
	}
	rec := &store.Record{Game: g, OwnerID: ownerID, DailyDate: date}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	log.Info().Str("game", rec.Game.ID()).Str("date", date).Msg("daily game created")
	return rec, nil
}

// DailyDate is today's daily key.
func (s *Games) DailyDate() string { return daily.DateKey(s.now()) }

// Get loads a game record.
func (s *Games) Get(ctx context.Context, id string) (*store.Record, error) {
	return s.store.Get(ctx, id)
}

// Roll rolls all dice (empty indices) or rerolls the selected ones.
func (s *Games) Roll(ctx context.Context, id string, indices []int) (*store.Record, error) {
	unlock := s.lock(id)
	defer unlock()

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Game.IsCompleted() {
		return nil, fmt.Errorf("%w: cannot roll dice in a completed game", game.ErrInvalidState)
	}
	g, err := rec.Game.RollDice(s.sourceFor(rec), indices)
	if err != nil {
		return nil, err
	}
	rec.Game = g
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	d, _ := g.Turn().Dice()
	log.Debug().Str("game", id).Int("turn", g.TurnNumber()).Int("roll", g.Turn().RollCount()).
		Ints("dice", d.Values()).Msg("dice rolled")
	return rec, nil
}

func (s *Games) sourceFor(rec *store.Record) game.Source {
	if rec.DailyDate == "" {
		return s.src
	}
	return daily.Source(rec.DailyDate, s.salt, rec.Game.TurnNumber(), rec.Game.Turn().RollCount())
}

// Score records the current hand in c and advances the game.
func (s *Games) Score(ctx context.Context, id string, c game.Category) (*store.Record, game.Score, error) {
	unlock := s.lock(id)
	defer unlock()

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, game.Score{}, err
	}
	if rec.Game.IsCompleted() {
		return nil, game.Score{}, fmt.Errorf("%w: cannot record a score in a completed game", game.ErrInvalidState)
	}
	if !c.Valid() {
		return nil, game.Score{}, fmt.Errorf("%w: unknown category %q", game.ErrValidation, c)
	}
	g, sc, err := rec.Game.RecordScoreAndNextTurn(c)
	if err != nil {
		return nil, game.Score{}, err
	}
	rec.Game = g
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, game.Score{}, fmt.Errorf("save game: %w", err)
	}
	log.Debug().Str("game", id).Str("category", string(c)).Int("points", sc.Points).Msg("score recorded")

	if g.IsCompleted() {
		s.onComplete(ctx, rec)
	}
	return rec, sc, nil
}

// onComplete runs best-effort side effects; failures are logged only.
func (s *Games) onComplete(ctx context.Context, rec *store.Record) {
	total := rec.Game.Player().TotalScore()
	log.Info().Str("game", rec.Game.ID()).Int("total", total).Msg("game completed")

	if s.users != nil && rec.OwnerID != "" {
		if err := s.users.RecordCompletion(ctx, rec.OwnerID, total); err != nil {
			log.Warn().Err(err).Str("owner", rec.OwnerID).Msg("record completion")
		}
	}
	if rec.DailyDate != "" {
		owner := rec.OwnerID
		if owner == "" {
			owner = "game:" + rec.Game.ID()
		}
		if err := s.daily.InsertResult(ctx, daily.Result{
			OwnerID:    owner,
			Date:       rec.DailyDate,
			GameID:     rec.Game.ID(),
			PlayerName: rec.Game.Player().Name(),
			Total:      total,
		}); err != nil {
			log.Warn().Err(err).Str("game", rec.Game.ID()).Msg("insert daily result")
		}
	}
}

// ScoreCard returns the game's card.
func (s *Games) ScoreCard(ctx context.Context, id string) (*game.ScoreCard, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Game.ScoreCard(), nil
}

// Preview returns what c would score now; 0 before the first roll.
func (s *Games) Preview(ctx context.Context, id string, c game.Category) (int, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: unknown category %q", game.ErrValidation, c)
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return rec.Game.PreviewScore(c), nil
}

// History lists recent games for a player name.
func (s *Games) History(ctx context.Context, playerName string, limit int) ([]store.Summary, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, fmt.Errorf("%w: player name must not be blank", game.ErrValidation)
	}
	return s.store.ListByPlayer(ctx, name, limit)
}

// Mine lists recent games for an owner.
func (s *Games) Mine(ctx context.Context, ownerID string, limit int) ([]store.Summary, error) {
	return s.store.ListByOwner(ctx, ownerID, limit)
}

// Claim moves guest games and their daily results to an account after login.
func (s *Games) Claim(ctx context.Context, from, to string) error {
	if err := s.store.Reassign(ctx, from, to); err != nil {
		return fmt.Errorf("reassign games: %w", err)
	}
	if err := s.daily.Reassign(ctx, from, to); err != nil {
		return fmt.Errorf("reassign daily results: %w", err)
	}
	return nil
}

func (s *Games) Stats(ctx context.Context) (Stats, error) {
	n, err := s.store.CountCompleted(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{CompletedGames: n}, nil
}

// Leaderboard returns the daily ranking (today when date is empty).
func (s *Games) Leaderboard(ctx context.Context, date string, limit int) ([]daily.LBRow, string, error) {
	if date == "" {
		date = s.DailyDate()
	}
	rows, err := s.daily.Leaderboard(ctx, date, limit)
	return rows, date, err
}
