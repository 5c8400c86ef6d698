package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/yacht/internal/auth"
	"github.com/robalobadob/yacht/internal/config"
	"github.com/robalobadob/yacht/internal/daily"
	"github.com/robalobadob/yacht/internal/game"
	"github.com/robalobadob/yacht/internal/service"
	"github.com/robalobadob/yacht/internal/store"
)

func newTestServer(t *testing.T, src game.Source) http.Handler {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "yacht.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatal(err)
	}

	users := auth.NewUsers(db)
	games := service.New(store.NewSQLiteStore(db), service.Options{
		Source: src,
		Daily:  daily.NewSQLStore(db),
		Users:  users,
		Salt:   "test",
	})
	cfg := config.Config{
		ClientOrigin:   "http://localhost:5173",
		CookieName:     "yacht_token",
		AppEnv:         "development",
		RequestTimeout: 5 * time.Second,
	}
	return New(Deps{
		Games:  games,
		Users:  users,
		Tokens: auth.NewTokens("test-secret", time.Hour),
		Config: cfg,
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)
	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil)
	rec := do(t, h, http.MethodOptions, "/api/yacht/games", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestGameFlow(t *testing.T) {
	h := newTestServer(t, game.NewSequenceSource(1, 1, 1, 2, 3, 6, 6))

	rec := do(t, h, http.MethodPost, "/api/yacht/games", `{"playerName":"Alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	if cookieNamed(rec, anonCookieName) == nil {
		t.Fatal("guest create should set the anonymous cookie")
	}
	gv := decode[gameView](t, rec)
	if gv.ID == "" || gv.Status != game.StatusInProgress || gv.CurrentTurn != 1 || gv.Dice != nil {
		t.Fatalf("unexpected new game view: %+v", gv)
	}
	if len(gv.AvailableCategories) != game.NumCategories || !gv.CanRollMore || gv.CanRecordScore {
		t.Fatalf("unexpected flags: %+v", gv)
	}
	base := "/api/yacht/games/" + gv.ID

	rec = do(t, h, http.MethodPost, base+"/roll", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("roll: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, h, http.MethodPost, base+"/roll", `{"rerollIndices":[3,4]}`)
	rv := decode[rollView](t, rec)
	if got := rv.DiceValues; len(got) != 5 || got[3] != 6 || got[4] != 6 || got[0] != 1 {
		t.Fatalf("dice = %v", got)
	}
	if rv.RollCount != 2 || !rv.CanRollMore || !rv.CanRecordScore {
		t.Fatalf("roll view: %+v", rv)
	}

	rec = do(t, h, http.MethodGet, base+"/preview/full_house", "")
	if p := decode[map[string]any](t, rec)["previewScore"]; p != float64(25) {
		t.Fatalf("preview = %v", p)
	}

	rec = do(t, h, http.MethodPost, base+"/score", `{"category":"FULL_HOUSE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("score: %d %s", rec.Code, rec.Body)
	}
	sr := decode[scoreRes](t, rec)
	if sr.Recorded.Points != 25 || sr.TotalScore != 25 || sr.LowerSectionTotal != 25 {
		t.Fatalf("score res: %+v", sr)
	}

	gv = decode[gameView](t, do(t, h, http.MethodGet, base, ""))
	if gv.CurrentTurn != 2 || gv.RollCount != 0 || len(gv.AvailableCategories) != 12 {
		t.Fatalf("state after score: %+v", gv)
	}

	cv := decode[scoreCardView](t, do(t, h, http.MethodGet, base+"/scorecard", ""))
	if len(cv.Scores) != 1 || cv.Scores[0].Category != game.FullHouse || cv.IsComplete {
		t.Fatalf("scorecard: %+v", cv)
	}

	list := decode[[]store.Summary](t, do(t, h, http.MethodGet, "/api/yacht/games?player=Alice", ""))
	if len(list) != 1 || list[0].ID != gv.ID {
		t.Fatalf("history: %+v", list)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newTestServer(t, game.NewSequenceSource(4))

	gv := decode[gameView](t, do(t, h, http.MethodPost, "/api/yacht/games", `{"playerName":"Bob"}`))
	base := "/api/yacht/games/" + gv.ID

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"blank name", http.MethodPost, "/api/yacht/games", `{"playerName":"  "}`, 400, "validation"},
		{"bad json", http.MethodPost, "/api/yacht/games", `{"playerName":`, 400, "bad_json"},
		{"unknown game", http.MethodGet, "/api/yacht/games/nope", "", 404, "not_found"},
		{"score before roll", http.MethodPost, base + "/score", `{"category":"CHANCE"}`, 409, "invalid_state"},
		{"reroll before roll", http.MethodPost, base + "/roll", `{"rerollIndices":[0]}`, 409, "invalid_state"},
		{"unknown category", http.MethodPost, base + "/score", `{"category":"BOGUS"}`, 400, "validation"},
		{"unknown preview category", http.MethodGet, base + "/preview/BOGUS", "", 400, "validation"},
		{"history without player", http.MethodGet, "/api/yacht/games", "", 400, "validation"},
		{"mine without auth", http.MethodGet, "/api/yacht/games/mine", "", 401, "unauthorized"},
		{"unknown route", http.MethodGet, "/nope", "", 404, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body)
			}
			if got := decode[errorBody](t, rec).Error; got != tc.code {
				t.Fatalf("error code = %q, want %q", got, tc.code)
			}
		})
	}

	do(t, h, http.MethodPost, base+"/roll", "")
	if rec := do(t, h, http.MethodPost, base+"/roll", `{"rerollIndices":[7]}`); rec.Code != 400 {
		t.Fatalf("bad index: %d", rec.Code)
	}
	do(t, h, http.MethodPost, base+"/score", `{"category":"FOURS"}`)
	do(t, h, http.MethodPost, base+"/roll", "")
	rec := do(t, h, http.MethodPost, base+"/score", `{"category":"FOURS"}`)
	if rec.Code != http.StatusConflict || decode[errorBody](t, rec).Error != "duplicate_category" {
		t.Fatalf("duplicate: %d %s", rec.Code, rec.Body)
	}
}

func TestCompletedGameAndStats(t *testing.T) {
	h := newTestServer(t, game.NewSequenceSource(5))
	gv := decode[gameView](t, do(t, h, http.MethodPost, "/api/yacht/games", `{"playerName":"Cy"}`))
	base := "/api/yacht/games/" + gv.ID

	var last scoreRes
	for _, c := range game.Categories() {
		do(t, h, http.MethodPost, base+"/roll", "")
		rec := do(t, h, http.MethodPost, base+"/score", `{"category":"`+string(c)+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("score %s: %d %s", c, rec.Code, rec.Body)
		}
		last = decode[scoreRes](t, rec)
	}
	if last.Status != game.StatusCompleted || !last.IsComplete {
		t.Fatalf("final: %+v", last)
	}

	if rec := do(t, h, http.MethodPost, base+"/roll", ""); rec.Code != http.StatusConflict {
		t.Fatalf("roll after completion: %d", rec.Code)
	}
	gv = decode[gameView](t, do(t, h, http.MethodGet, base, ""))
	if gv.CanRollMore || gv.CanRecordScore || gv.CurrentTurn != game.TotalTurns {
		t.Fatalf("completed view: %+v", gv)
	}

	st := decode[service.Stats](t, do(t, h, http.MethodGet, "/api/yacht/stats", ""))
	if st.CompletedGames != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestAuthClaimsGuestGames(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/yacht/games", `{"playerName":"Dee"}`)
	anon := cookieNamed(rec, anonCookieName)
	if anon == nil {
		t.Fatal("missing anon cookie")
	}

	rec = do(t, h, http.MethodPost, "/auth/signup", `{"username":"dee_1","password":"hunter22!"}`, anon)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", rec.Code, rec.Body)
	}
	session := cookieNamed(rec, "yacht_token")
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("session cookie: %+v", session)
	}

	me := decode[auth.User](t, do(t, h, http.MethodGet, "/auth/me", "", session))
	if me.Username != "dee_1" {
		t.Fatalf("me = %+v", me)
	}

	mine := decode[[]store.Summary](t, do(t, h, http.MethodGet, "/api/yacht/games/mine", "", session))
	if len(mine) != 1 || mine[0].PlayerName != "Dee" {
		t.Fatalf("mine = %+v", mine)
	}

	if rec := do(t, h, http.MethodPost, "/auth/signup", `{"username":"DEE_1","password":"hunter22!"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/auth/login", `{"username":"dee_1","password":"wrong-pass"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/auth/login", `{"username":"dee_1","password":"hunter22!"}`); rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodPost, "/auth/logout", "", session)
	if c := cookieNamed(rec, "yacht_token"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("logout should expire the session cookie: %+v", c)
	}

	bad := &http.Cookie{Name: "yacht_token", Value: "not-a-token"}
	if rec := do(t, h, http.MethodGet, "/auth/me", "", bad); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}
}

func TestDailySharedDiceAndLeaderboard(t *testing.T) {
	h := newTestServer(t, nil)

	first := func(anon string) []int {
		c := &http.Cookie{Name: anonCookieName, Value: anon}
		rec := do(t, h, http.MethodPost, "/api/yacht/daily/new", `{"playerName":"`+anon+`"}`, c)
		res := decode[dailyNewRes](t, rec)
		if res.Played || res.Game == nil {
			t.Fatalf("daily new: %s", rec.Body)
		}
		rv := decode[rollView](t, do(t, h, http.MethodPost, "/api/yacht/games/"+res.Game.ID+"/roll", "", c))
		return rv.DiceValues
	}
	a, b := first("anon-a"), first("anon-b")
	if len(a) != 5 || fmtInts(a) != fmtInts(b) {
		t.Fatalf("daily dice differ: %v vs %v", a, b)
	}

	lb := decode[lbRes](t, do(t, h, http.MethodGet, "/api/yacht/daily/leaderboard", ""))
	if lb.Date == "" || len(lb.Top) != 0 {
		t.Fatalf("leaderboard before completion: %+v", lb)
	}
	if rec := do(t, h, http.MethodGet, "/api/yacht/daily/leaderboard?date=yesterday", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: %d", rec.Code)
	}
}

func fmtInts(v []int) string {
	b, _ := json.Marshal(v)
	return string(b)
}
