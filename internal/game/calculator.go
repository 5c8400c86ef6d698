// internal/game/calculator.go
//
// Pure scoring rules. Calculate maps (hand, category) to points and never
// mutates its input; UpperSectionBonusFor is applied at the scorecard level.

package game

import "slices"

const (
	fullHousePoints     = 25
	smallStraightPoints = 30
	largeStraightPoints = 40
	yachtPoints         = 50
)

var (
	smallStraights = [][]int{{1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}}
	largeStraights = [][]int{{1, 2, 3, 4, 5}, {2, 3, 4, 5, 6}}
)

// Calculate scores d in category c. Unknown categories score 0.
func Calculate(d DiceSet, c Category) int {
	if face, ok := c.Face(); ok {
		return d.CountOf(face) * face
	}
	switch c {
	case ThreeOfAKind:
		if maxCount(d) >= 3 {
			return d.Sum()
		}
	case FourOfAKind:
		if maxCount(d) >= 4 {
			return d.Sum()
		}
	case FullHouse:
		if isFullHouse(d) {
			return fullHousePoints
		}
	case SmallStraight:
		if containsAnyRun(d, smallStraights) {
			return smallStraightPoints
		}
	case LargeStraight:
		sorted := d.SortedValues()
		for _, run := range largeStraights {
			if slices.Equal(sorted, run) {
				return largeStraightPoints
			}
		}
	case Yacht:
		if maxCount(d) == DiceCount {
			return yachtPoints
		}
	case Chance:
		return d.Sum()
	}
	return 0
}

// UpperSectionBonusFor returns the bonus earned by an upper-section total.
func UpperSectionBonusFor(upperTotal int) int {
	if upperTotal >= UpperSectionBonusThreshold {
		return UpperSectionBonusScore
	}
	return 0
}

func maxCount(d DiceSet) int {
	best := 0
	for _, n := range d.ValueCounts() {
		best = max(best, n)
	}
	return best
}

// isFullHouse requires counts of exactly [2,3]; five alike does not qualify.
func isFullHouse(d DiceSet) bool {
	counts := make([]int, 0, 2)
	for _, n := range d.ValueCounts() {
		counts = append(counts, n)
	}
	slices.Sort(counts)
	return slices.Equal(counts, []int{2, 3})
}

func containsAnyRun(d DiceSet, runs [][]int) bool {
	counts := d.ValueCounts()
	for _, run := range runs {
		ok := true
		for _, v := range run {
			if counts[v] == 0 {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
