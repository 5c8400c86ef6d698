// internal/game/game.go
//
// Game orchestrates one player's thirteen turns.
// Responsibilities:
//   - Create a game for a named player (turn 1, fresh Turn).
//   - Delegate rolling to the current Turn.
//   - Score the current hand into the player's card and advance the turn,
//     or freeze as COMPLETED once the card is full.
//   - Read-only previews for UI hints.
//
// Notes:
//   - Every transition returns a new Game; the receiver is never mutated.
//   - Completed games reject RollDice and RecordScoreAndNextTurn with
//     ErrInvalidState. The service layer checks too.

package game

import "fmt"

// Status is the coarse lifecycle state persisted alongside a game.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// TotalTurns is the number of turns in a full game (one per category).
const TotalTurns = NumCategories

// Game is an immutable snapshot of a single-player game.
type Game struct {
	id         string
	player     Player
	turn       Turn
	turnNumber int
	completed  bool
}

// New starts a game for playerName. The ID is assigned by the store.
func New(playerName string) (Game, error) {
	p, err := NewPlayer(playerName)
	if err != nil {
		return Game{}, err
	}
	return Game{player: p, turn: NewTurn(), turnNumber: 1}, nil
}

// Restore rebuilds a game from persisted parts. Scores are replayed into a
// fresh card in the given order; the completed flag and the turn number
// must agree with the card.
func Restore(id, playerName string, scores []Score, turn Turn, turnNumber int, completed bool) (Game, error) {
	card := NewScoreCard()
	for _, s := range scores {
		if err := card.Record(s); err != nil {
			return Game{}, err
		}
	}
	p, err := restorePlayer(playerName, card)
	if err != nil {
		return Game{}, err
	}
	if turnNumber < 1 || turnNumber > TotalTurns {
		return Game{}, fmt.Errorf("%w: turn number must be 1..%d, got %d", ErrValidation, TotalTurns, turnNumber)
	}
	if completed != card.IsComplete() {
		return Game{}, fmt.Errorf("%w: completed=%t but %d of %d categories recorded",
			ErrValidation, completed, card.Len(), NumCategories)
	}
	want := card.Len() + 1
	if completed {
		want = TotalTurns
	}
	if turnNumber != want {
		return Game{}, fmt.Errorf("%w: turn number %d does not match %d recorded categories",
			ErrValidation, turnNumber, card.Len())
	}
	return Game{id: id, player: p, turn: turn, turnNumber: turnNumber, completed: completed}, nil
}

func (g Game) ID() string { return g.id }

// WithID returns a copy of g carrying id.
func (g Game) WithID(id string) Game {
	g.id = id
	return g
}

func (g Game) Player() Player { return g.player }

func (g Game) Turn() Turn { return g.turn }

func (g Game) TurnNumber() int { return g.turnNumber }

func (g Game) IsCompleted() bool { return g.completed }

func (g Game) Status() Status {
	if g.completed {
		return StatusCompleted
	}
	return StatusInProgress
}

// ScoreCard returns a copy of the player's card.
func (g Game) ScoreCard() *ScoreCard { return g.player.ScoreCard() }

// RollDice rolls all five dice when indices is empty, otherwise rerolls
// the dice at indices.
func (g Game) RollDice(src Source, indices []int) (Game, error) {
	if g.completed {
		return g, fmt.Errorf("%w: game is completed", ErrInvalidState)
	}
	var (
		next Turn
		err  error
	)
	if len(indices) == 0 {
		next, err = g.turn.RollAll(src)
	} else {
		next, err = g.turn.Reroll(src, indices)
	}
	if err != nil {
		return g, err
	}
	g.turn = next
	return g, nil
}

// RecordScoreAndNextTurn scores the current hand in c and advances to the
// next turn, or completes the game when the card becomes full. The
// recorded score is returned alongside the new snapshot.
func (g Game) RecordScoreAndNextTurn(c Category) (Game, Score, error) {
	if g.completed {
		return g, Score{}, fmt.Errorf("%w: game is completed", ErrInvalidState)
	}
	if !g.turn.CanRecordScore() {
		return g, Score{}, fmt.Errorf("%w: roll the dice before scoring", ErrInvalidState)
	}
	score, err := g.turn.CalculateScore(c)
	if err != nil {
		return g, Score{}, err
	}
	p, err := g.player.RecordScore(score)
	if err != nil {
		return g, Score{}, err
	}
	g.player = p
	if p.IsGameComplete() {
		g.completed = true
		return g, score, nil
	}
	g.turnNumber++
	g.turn = NewTurn()
	return g, score, nil
}

// PreviewScore returns what c would score with the current hand, or 0
// when nothing has been rolled. No state changes.
func (g Game) PreviewScore(c Category) int {
	if !g.turn.CanRecordScore() {
		return 0
	}
	d, _ := g.turn.Dice()
	return Calculate(d, c)
}

// AvailableCategories lists the player's unfilled categories.
func (g Game) AvailableCategories() []Category {
	return g.player.card.AvailableCategories()
}
