// internal/httpserver/routes_games.go
//
// HTTP routes for regular games, mounted under /api/yacht:
//   - POST /games                       → create a game (201)
//   - GET  /games?player=NAME           → recent games for a player name
//   - GET  /games/mine                  → recent games for the logged-in user
//   - GET  /games/{id}                  → game state
//   - POST /games/{id}/roll             → roll all dice or reroll a subset
//   - POST /games/{id}/score            → record a category, advance the turn
//   - GET  /games/{id}/scorecard        → scorecard with section totals
//   - GET  /games/{id}/preview/{cat}    → what a category would score now
//   - GET  /stats                       → completed game count

package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/yacht/internal/game"
	"github.com/robalobadob/yacht/internal/store"
)

func (s *Server) mountGames(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleHistory)
		r.With(s.requireAuth()).Get("/mine", s.handleMine)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Post("/roll", s.handleRoll)
			r.Post("/score", s.handleScore)
			r.Get("/scorecard", s.handleScoreCard)
			r.Get("/preview/{category}", s.handlePreview)
		})
	})
}

// ------------------------------- views -------------------------------------

type gameView struct {
	ID                  string          `json:"id"`
	PlayerName          string          `json:"playerName"`
	Status              game.Status     `json:"status"`
	CurrentTurn         int             `json:"currentTurn"`
	RollCount           int             `json:"rollCount"`
	Dice                []int           `json:"dice"`
	CanRollMore         bool            `json:"canRollMore"`
	CanRecordScore      bool            `json:"canRecordScore"`
	AvailableCategories []game.Category `json:"availableCategories"`
	TotalScore          int             `json:"totalScore"`
	DailyDate           string          `json:"dailyDate,omitempty"`
}

func newGameView(rec *store.Record) gameView {
	g := rec.Game
	t := g.Turn()
	v := gameView{
		ID:                  g.ID(),
		PlayerName:          g.Player().Name(),
		Status:              g.Status(),
		CurrentTurn:         g.TurnNumber(),
		RollCount:           t.RollCount(),
		CanRollMore:         !g.IsCompleted() && t.CanRoll(),
		CanRecordScore:      !g.IsCompleted() && t.CanRecordScore(),
		AvailableCategories: g.AvailableCategories(),
		TotalScore:          g.Player().TotalScore(),
		DailyDate:           rec.DailyDate,
	}
	if d, ok := t.Dice(); ok {
		v.Dice = d.Values()
	}
	return v
}

type rollView struct {
	DiceValues     []int `json:"diceValues"`
	RollCount      int   `json:"rollCount"`
	CanRollMore    bool  `json:"canRollMore"`
	CanRecordScore bool  `json:"canRecordScore"`
}

type scoreEntry struct {
	Category    game.Category `json:"category"`
	DisplayName string        `json:"displayName"`
	Points      int           `json:"points"`
	RecordedAt  time.Time     `json:"recordedAt"`
}

type scoreCardView struct {
	Scores              []scoreEntry    `json:"scores"`
	UpperSectionTotal   int             `json:"upperSectionTotal"`
	UpperSectionBonus   int             `json:"upperSectionBonus"`
	LowerSectionTotal   int             `json:"lowerSectionTotal"`
	TotalScore          int             `json:"totalScore"`
	IsComplete          bool            `json:"isComplete"`
	AvailableCategories []game.Category `json:"availableCategories"`
}

func newScoreCardView(sc *game.ScoreCard) scoreCardView {
	v := scoreCardView{
		Scores:              []scoreEntry{},
		UpperSectionTotal:   sc.UpperSectionTotal(),
		UpperSectionBonus:   sc.UpperSectionBonus(),
		LowerSectionTotal:   sc.LowerSectionTotal(),
		TotalScore:          sc.TotalScore(),
		IsComplete:          sc.IsComplete(),
		AvailableCategories: sc.AvailableCategories(),
	}
	for _, s := range sc.Scores() {
		v.Scores = append(v.Scores, scoreEntry{
			Category:    s.Category,
			DisplayName: s.Category.DisplayName(),
			Points:      s.Points,
			RecordedAt:  s.RecordedAt,
		})
	}
	return v
}

// ------------------------------ handlers -----------------------------------

type createReq struct {
	PlayerName string `json:"playerName"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	rec, err := s.games.Create(r.Context(), req.PlayerName, s.ownerID(w, r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGameView(rec))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	rec, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(rec))
}

type rollReq struct {
	RerollIndices []int `json:"rerollIndices"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollReq
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	rec, err := s.games.Roll(r.Context(), chi.URLParam(r, "id"), req.RerollIndices)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t := rec.Game.Turn()
	d, _ := t.Dice()
	writeJSON(w, http.StatusOK, rollView{
		DiceValues:     d.Values(),
		RollCount:      t.RollCount(),
		CanRollMore:    t.CanRoll(),
		CanRecordScore: t.CanRecordScore(),
	})
}

type scoreReq struct {
	Category string `json:"category"`
}

type scoreRes struct {
	Recorded scoreEntry  `json:"recorded"`
	Status   game.Status `json:"status"`
	scoreCardView
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	c, err := game.ParseCategory(req.Category)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	rec, sc, err := s.games.Score(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreRes{
		Recorded: scoreEntry{
			Category:    sc.Category,
			DisplayName: sc.Category.DisplayName(),
			Points:      sc.Points,
			RecordedAt:  sc.RecordedAt,
		},
		Status:        rec.Game.Status(),
		scoreCardView: newScoreCardView(rec.Game.ScoreCard()),
	})
}

func (s *Server) handleScoreCard(w http.ResponseWriter, r *http.Request) {
	sc, err := s.games.ScoreCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newScoreCardView(sc))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	c, err := game.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := s.games.Preview(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": c, "previewScore": p})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.games.History(r.Context(), r.URL.Query().Get("player"), queryLimit(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	if me == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}
	rows, err := s.games.Mine(r.Context(), me.ID, queryLimit(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Stats(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// queryLimit reads ?limit=; invalid values fall back to the store default.
func queryLimit(r *http.Request) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("limit")))
	return n
}
