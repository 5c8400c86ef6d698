// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge, mounted under /api/yacht/daily:
//   - POST /daily/new         → start (or resume) today's daily game
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Daily games are ordinary games afterwards: roll and score go through
// /games/{id}/... and draw from the day's shared dice stream. Each owner
// (user or anonymous cookie) can finish one daily game per day.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/yacht/internal/daily"
	"github.com/robalobadob/yacht/internal/service"
)

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new. Played is true when the owner
// already finished today's game; Game is empty in that case.
type dailyNewRes struct {
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if me := currentUser(r); me != nil && req.PlayerName == "" {
		req.PlayerName = me.Username
	}

	rec, err := s.games.CreateDaily(r.Context(), req.PlayerName, s.ownerID(w, r))
	if errors.Is(err, service.ErrDailyPlayed) {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: s.games.DailyDate(), Played: true})
		return
	}
	if err != nil {
		writeErr(w, r, err)
		return
	}
	v := newGameView(rec)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: rec.DailyDate, Game: &v})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			writeError(w, http.StatusBadRequest, "validation", "date must be YYYY-MM-DD")
			return
		}
	}
	rows, date, err := s.games.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
