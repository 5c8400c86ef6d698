// internal/game/category.go
//
// Category is the closed set of thirteen scoring boxes, split into the
// upper section (ONES..SIXES, scored by face) and the lower section
// (combinations). Declaration order is canonical and drives every listing.

package game

import (
	"fmt"
	"strings"
)

// Category names a scoring box. Values travel on the wire as-is.
type Category string

const (
	Ones          Category = "ONES"
	Twos          Category = "TWOS"
	Threes        Category = "THREES"
	Fours         Category = "FOURS"
	Fives         Category = "FIVES"
	Sixes         Category = "SIXES"
	ThreeOfAKind  Category = "THREE_OF_A_KIND"
	FourOfAKind   Category = "FOUR_OF_A_KIND"
	FullHouse     Category = "FULL_HOUSE"
	SmallStraight Category = "SMALL_STRAIGHT"
	LargeStraight Category = "LARGE_STRAIGHT"
	Yacht         Category = "YACHT"
	Chance        Category = "CHANCE"
)

// Upper-section bonus rule.
const (
	UpperSectionBonusThreshold = 63
	UpperSectionBonusScore     = 35
)

type categoryInfo struct {
	display     string
	description string
	face        int // 0 for lower section
}

var categoryOrder = []Category{
	Ones, Twos, Threes, Fours, Fives, Sixes,
	ThreeOfAKind, FourOfAKind, FullHouse, SmallStraight, LargeStraight, Yacht, Chance,
}

var categoryTable = map[Category]categoryInfo{
	Ones:          {"Ones", "Count of ones x 1", 1},
	Twos:          {"Twos", "Count of twos x 2", 2},
	Threes:        {"Threes", "Count of threes x 3", 3},
	Fours:         {"Fours", "Count of fours x 4", 4},
	Fives:         {"Fives", "Count of fives x 5", 5},
	Sixes:         {"Sixes", "Count of sixes x 6", 6},
	ThreeOfAKind:  {"Three of a Kind", "At least three alike: sum of all dice", 0},
	FourOfAKind:   {"Four of a Kind", "At least four alike: sum of all dice", 0},
	FullHouse:     {"Full House", "Three of one face and two of another: 25", 0},
	SmallStraight: {"Small Straight", "Four in a row: 30", 0},
	LargeStraight: {"Large Straight", "Five in a row: 40", 0},
	Yacht:         {"Yacht", "All five alike: 50", 0},
	Chance:        {"Chance", "Sum of all dice", 0},
}

// NumCategories is the number of boxes on a full scorecard.
const NumCategories = 13

// Categories returns all categories in canonical order.
func Categories() []Category { return append([]Category(nil), categoryOrder...) }

// UpperSection returns ONES..SIXES.
func UpperSection() []Category { return append([]Category(nil), categoryOrder[:6]...) }

// LowerSection returns the seven combination categories.
func LowerSection() []Category { return append([]Category(nil), categoryOrder[6:]...) }

// ParseCategory accepts the wire name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

func (c Category) String() string { return string(c) }

func (c Category) DisplayName() string { return categoryTable[c].display }

func (c Category) Description() string { return categoryTable[c].description }

func (c Category) IsUpperSection() bool { return categoryTable[c].face > 0 }

// Face returns the die face an upper-section category counts.
func (c Category) Face() (int, bool) {
	f := categoryTable[c].face
	return f, f > 0
}

// UnmarshalText rejects unknown names so JSON decoding validates for free.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
