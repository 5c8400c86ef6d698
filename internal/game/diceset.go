// internal/game/diceset.go
//
// DiceSet is the five-dice hand a turn works with.
// Responsibilities:
//   - Construct by rolling or from explicit faces (validated).
//   - Partial reroll by index, keeping every other die verbatim.
//   - Aggregate queries used by the score calculator.
//   - Round-trip to the persisted "1,2,3,4,5" form.

package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DiceCount is the number of dice in a hand.
const DiceCount = 5

// DiceSet is an immutable, ordered hand of exactly five dice.
// Being an array-backed value, copies never share state.
type DiceSet struct {
	dice [DiceCount]Die
}

// RollDiceSet draws five independent dice from src.
func RollDiceSet(src Source) DiceSet {
	var d DiceSet
	for i := range d.dice {
		d.dice[i] = RollDie(src)
	}
	return d
}

// NewDiceSet builds a hand from exactly five faces.
func NewDiceSet(values ...int) (DiceSet, error) {
	if len(values) != DiceCount {
		return DiceSet{}, fmt.Errorf("%w: need exactly %d dice, got %d", ErrValidation, DiceCount, len(values))
	}
	var d DiceSet
	for i, v := range values {
		die, err := NewDie(v)
		if err != nil {
			return DiceSet{}, err
		}
		d.dice[i] = die
	}
	return d, nil
}

// MustDiceSet is NewDiceSet for literal hands; it panics on invalid input.
func MustDiceSet(values ...int) DiceSet {
	d, err := NewDiceSet(values...)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDiceSet reads the comma-joined form produced by String.
func ParseDiceSet(s string) (DiceSet, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return DiceSet{}, fmt.Errorf("%w: bad dice value %q", ErrValidation, p)
		}
		values = append(values, v)
	}
	return NewDiceSet(values...)
}

// Reroll returns a new hand where the dice at the given 0-based indices are
// redrawn (in die order) and the rest are copied unchanged. Repeated indices
// count once. Any index outside 0..4 fails the whole call.
func (d DiceSet) Reroll(src Source, indices []int) (DiceSet, error) {
	var selected [DiceCount]bool
	for _, i := range indices {
		if i < 0 || i >= DiceCount {
			return DiceSet{}, fmt.Errorf("%w: dice index must be 0..%d, got %d", ErrValidation, DiceCount-1, i)
		}
		selected[i] = true
	}
	out := d
	for i, die := range d.dice {
		if selected[i] {
			out.dice[i] = die.Reroll(src)
		}
	}
	return out, nil
}

// RerollAll is RollDiceSet under another name, kept for symmetry with Reroll.
func (d DiceSet) RerollAll(src Source) DiceSet { return RollDiceSet(src) }

// Values returns the faces in die order.
func (d DiceSet) Values() []int {
	out := make([]int, DiceCount)
	for i, die := range d.dice {
		out[i] = die.Value()
	}
	return out
}

// CountOf returns how many dice show v.
func (d DiceSet) CountOf(v int) int {
	n := 0
	for _, die := range d.dice {
		if die.Is(v) {
			n++
		}
	}
	return n
}

func (d DiceSet) Sum() int {
	total := 0
	for _, die := range d.dice {
		total += die.Value()
	}
	return total
}

// SortedValues returns the faces in ascending order.
func (d DiceSet) SortedValues() []int {
	v := d.Values()
	slices.Sort(v)
	return v
}

// ValueCounts maps each face present to its number of occurrences.
// Absent faces have no entry.
func (d DiceSet) ValueCounts() map[int]int {
	m := make(map[int]int, DiceCount)
	for _, die := range d.dice {
		m[die.Value()]++
	}
	return m
}

// String renders the persisted form, e.g. "1,2,3,4,5".
func (d DiceSet) String() string {
	parts := make([]string, DiceCount)
	for i, die := range d.dice {
		parts[i] = strconv.Itoa(die.Value())
	}
	return strings.Join(parts, ",")
}
