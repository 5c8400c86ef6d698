package game

import "fmt"

const (
	MinFace = 1
	MaxFace = 6
)

// Die is a single six-sided die. The zero value is not a valid die;
// use NewDie or RollDie.
type Die struct {
	value int
}

// NewDie returns a die showing v, or ErrValidation when v is outside 1..6.
func NewDie(v int) (Die, error) {
	if v < MinFace || v > MaxFace {
		return Die{}, fmt.Errorf("%w: die value must be %d..%d, got %d", ErrValidation, MinFace, MaxFace, v)
	}
	return Die{value: v}, nil
}

// RollDie draws a uniformly distributed face from src.
func RollDie(src Source) Die {
	return Die{value: src.IntN(MaxFace) + MinFace}
}

func (d Die) Value() int { return d.value }

// Is reports whether the die shows target.
func (d Die) Is(target int) bool { return d.value == target }

// Reroll returns a freshly drawn die; d is left untouched.
func (d Die) Reroll(src Source) Die { return RollDie(src) }
