package game

import "fmt"

// ScoreCard maps categories to recorded scores. Each category is written
// at most once; the card never shrinks.
//
// Record mutates in place and is not safe for concurrent use. Player
// clones the card before recording so Game snapshots stay independent.
type ScoreCard struct {
	scores map[Category]Score
}

// NewScoreCard returns an empty card.
func NewScoreCard() *ScoreCard {
	return &ScoreCard{scores: make(map[Category]Score, NumCategories)}
}

// Record stores s, failing with ErrDuplicateCategory if its category is
// already filled. The existing score is left untouched on failure.
func (sc *ScoreCard) Record(s Score) error {
	if !s.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, s.Category)
	}
	if s.Points < 0 {
		return fmt.Errorf("%w: points must be >= 0, got %d", ErrValidation, s.Points)
	}
	if sc.IsRecorded(s.Category) {
		return fmt.Errorf("%w: %s", ErrDuplicateCategory, s.Category.DisplayName())
	}
	if sc.scores == nil {
		sc.scores = make(map[Category]Score, NumCategories)
	}
	sc.scores[s.Category] = s
	return nil
}

func (sc *ScoreCard) IsRecorded(c Category) bool {
	_, ok := sc.scores[c]
	return ok
}

// Score returns the recorded score for c, if any.
func (sc *ScoreCard) Score(c Category) (Score, bool) {
	s, ok := sc.scores[c]
	return s, ok
}

func (sc *ScoreCard) UpperSectionTotal() int { return sc.sectionTotal(UpperSection()) }

func (sc *ScoreCard) LowerSectionTotal() int { return sc.sectionTotal(LowerSection()) }

func (sc *ScoreCard) sectionTotal(section []Category) int {
	total := 0
	for _, c := range section {
		total += sc.scores[c].Points
	}
	return total
}

func (sc *ScoreCard) UpperSectionBonus() int { return UpperSectionBonusFor(sc.UpperSectionTotal()) }

// TotalScore is upper total + bonus + lower total.
func (sc *ScoreCard) TotalScore() int {
	return sc.UpperSectionTotal() + sc.UpperSectionBonus() + sc.LowerSectionTotal()
}

// IsComplete reports whether all thirteen categories are filled.
func (sc *ScoreCard) IsComplete() bool {
	for _, c := range categoryOrder {
		if !sc.IsRecorded(c) {
			return false
		}
	}
	return true
}

// AvailableCategories lists unfilled categories in canonical order.
func (sc *ScoreCard) AvailableCategories() []Category {
	out := make([]Category, 0, NumCategories)
	for _, c := range categoryOrder {
		if !sc.IsRecorded(c) {
			out = append(out, c)
		}
	}
	return out
}

// Scores returns the recorded scores in canonical category order.
func (sc *ScoreCard) Scores() []Score {
	out := make([]Score, 0, len(sc.scores))
	for _, c := range categoryOrder {
		if s, ok := sc.scores[c]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Len is the number of filled categories.
func (sc *ScoreCard) Len() int { return len(sc.scores) }

// Clone returns an independent copy.
func (sc *ScoreCard) Clone() *ScoreCard {
	out := NewScoreCard()
	for c, s := range sc.scores {
		out.scores[c] = s
	}
	return out
}
