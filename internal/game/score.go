package game

import (
	"fmt"
	"time"
)

// Score is a recorded (or previewed) result for one category.
type Score struct {
	Category   Category  `json:"category"`
	Points     int       `json:"points"`
	RecordedAt time.Time `json:"recordedAt"`
}

// NewScore validates category and points (points must be >= 0).
func NewScore(c Category, points int, at time.Time) (Score, error) {
	if !c.Valid() {
		return Score{}, fmt.Errorf("%w: unknown category %q", ErrValidation, c)
	}
	if points < 0 {
		return Score{}, fmt.Errorf("%w: points must be >= 0, got %d", ErrValidation, points)
	}
	return Score{Category: c, Points: points, RecordedAt: at}, nil
}

// CalculateScore scores d in c, stamped with at.
func CalculateScore(d DiceSet, c Category, at time.Time) (Score, error) {
	return NewScore(c, Calculate(d, c), at)
}

// ZeroScore is a scratch entry for c.
func ZeroScore(c Category, at time.Time) Score {
	return Score{Category: c, RecordedAt: at}
}

func (s Score) IsZero() bool { return s.Points == 0 }

func (s Score) IsUpperSection() bool { return s.Category.IsUpperSection() }
