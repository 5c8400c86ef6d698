// internal/game/turn.go
//
// Turn is the roll/reroll state machine for one scoring decision.
// States are (rollCount, hasDice) starting at (0, false); each roll moves to
// (rollCount+1, true) until MaxRolls. Scoring ends the turn but is driven by
// Game, which discards the Turn afterwards.

package game

import (
	"fmt"
	"time"
)

// MaxRolls is the number of rolls (initial + rerolls) allowed per turn.
const MaxRolls = 3

// Turn is an immutable snapshot; transitions return a new Turn.
type Turn struct {
	rollCount int
	dice      DiceSet
	hasDice   bool
}

// NewTurn returns a turn with no dice rolled yet.
func NewTurn() Turn { return Turn{} }

// RestoreTurn rebuilds a persisted turn, enforcing
// rollCount in 0..3 and (rollCount > 0) == (dice present).
func RestoreTurn(rollCount int, dice *DiceSet) (Turn, error) {
	if rollCount < 0 || rollCount > MaxRolls {
		return Turn{}, fmt.Errorf("%w: roll count must be 0..%d, got %d", ErrValidation, MaxRolls, rollCount)
	}
	if (rollCount > 0) != (dice != nil) {
		return Turn{}, fmt.Errorf("%w: roll count %d inconsistent with dice presence", ErrValidation, rollCount)
	}
	t := Turn{rollCount: rollCount}
	if dice != nil {
		t.dice, t.hasDice = *dice, true
	}
	return t, nil
}

func (t Turn) RollCount() int { return t.rollCount }

// Dice returns the current hand, or false before the first roll.
func (t Turn) Dice() (DiceSet, bool) { return t.dice, t.hasDice }

func (t Turn) CanRoll() bool { return t.rollCount < MaxRolls }

func (t Turn) RollsLeft() int { return MaxRolls - t.rollCount }

// RollAll draws a fresh hand.
func (t Turn) RollAll(src Source) (Turn, error) {
	if !t.CanRoll() {
		return t, fmt.Errorf("%w: no rolls left (rolled %d times)", ErrInvalidState, t.rollCount)
	}
	return Turn{rollCount: t.rollCount + 1, dice: RollDiceSet(src), hasDice: true}, nil
}

// Reroll redraws the dice at indices, keeping the others.
func (t Turn) Reroll(src Source, indices []int) (Turn, error) {
	if !t.CanRoll() {
		return t, fmt.Errorf("%w: no rolls left (rolled %d times)", ErrInvalidState, t.rollCount)
	}
	if !t.hasDice {
		return t, fmt.Errorf("%w: roll all dice before rerolling", ErrInvalidState)
	}
	next, err := t.dice.Reroll(src, indices)
	if err != nil {
		return t, err
	}
	return Turn{rollCount: t.rollCount + 1, dice: next, hasDice: true}, nil
}

// CanRecordScore reports whether at least one roll happened this turn.
func (t Turn) CanRecordScore() bool { return t.rollCount > 0 && t.hasDice }

// CalculateScore scores the current hand in c.
func (t Turn) CalculateScore(c Category) (Score, error) {
	if !t.hasDice {
		return Score{}, fmt.Errorf("%w: roll the dice before scoring", ErrInvalidState)
	}
	return CalculateScore(t.dice, c, time.Now().UTC())
}
