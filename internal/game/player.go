package game

import (
	"fmt"
	"strings"
)

// Player is a named owner of a scorecard. Recording a score yields a new
// Player holding a new card; the receiver's card is never touched.
type Player struct {
	name string
	card *ScoreCard
}

// NewPlayer rejects blank names.
func NewPlayer(name string) (Player, error) {
	return restorePlayer(name, NewScoreCard())
}

func restorePlayer(name string, card *ScoreCard) (Player, error) {
	if strings.TrimSpace(name) == "" {
		return Player{}, fmt.Errorf("%w: player name must not be blank", ErrValidation)
	}
	return Player{name: name, card: card}, nil
}

func (p Player) Name() string { return p.name }

// ScoreCard returns a copy of the player's card.
func (p Player) ScoreCard() *ScoreCard { return p.card.Clone() }

// RecordScore returns a player whose card has s added.
func (p Player) RecordScore(s Score) (Player, error) {
	next := p.card.Clone()
	if err := next.Record(s); err != nil {
		return p, err
	}
	return Player{name: p.name, card: next}, nil
}

func (p Player) TotalScore() int { return p.card.TotalScore() }

func (p Player) IsGameComplete() bool { return p.card.IsComplete() }
