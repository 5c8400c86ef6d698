package game

import (
	"errors"
	"slices"
	"testing"
)

func TestNewTurn(t *testing.T) {
	tr := NewTurn()
	if tr.RollCount() != 0 || !tr.CanRoll() || tr.RollsLeft() != MaxRolls {
		t.Fatalf("fresh turn = %+v", tr)
	}
	if _, ok := tr.Dice(); ok {
		t.Error("fresh turn has dice")
	}
	if tr.CanRecordScore() {
		t.Error("CanRecordScore before any roll")
	}
	if _, err := tr.CalculateScore(Chance); !errors.Is(err, ErrInvalidState) {
		t.Errorf("CalculateScore err = %v", err)
	}
}

func TestTurnRollsUpToThree(t *testing.T) {
	src := NewSequenceSource(1, 2, 3, 4, 5)
	tr := NewTurn()
	var err error
	for i := 1; i <= MaxRolls; i++ {
		if tr, err = tr.RollAll(src); err != nil {
			t.Fatalf("roll %d: %v", i, err)
		}
		if tr.RollCount() != i {
			t.Fatalf("roll count = %d, want %d", tr.RollCount(), i)
		}
	}
	if tr.CanRoll() {
		t.Error("CanRoll after three rolls")
	}
	if _, err := tr.RollAll(src); !errors.Is(err, ErrInvalidState) {
		t.Errorf("fourth RollAll err = %v", err)
	}
	if _, err := tr.Reroll(src, []int{0}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("fourth Reroll err = %v", err)
	}
}

func TestTurnRerollRequiresDice(t *testing.T) {
	if _, err := NewTurn().Reroll(DefaultSource(), []int{0}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestTurnReroll(t *testing.T) {
	tr, err := NewTurn().RollAll(NewSequenceSource(1, 2, 3, 4, 5))
	if err != nil {
		t.Fatal(err)
	}
	if !tr.CanRecordScore() {
		t.Error("CanRecordScore after roll = false")
	}
	next, err := tr.Reroll(NewSequenceSource(6, 6), []int{0, 4})
	if err != nil {
		t.Fatal(err)
	}
	d, _ := next.Dice()
	if !slices.Equal(d.Values(), []int{6, 2, 3, 4, 6}) {
		t.Errorf("dice = %v", d.Values())
	}
	if next.RollCount() != 2 {
		t.Errorf("roll count = %d", next.RollCount())
	}
	if tr.RollCount() != 1 {
		t.Error("original turn mutated")
	}
	if _, err := tr.Reroll(DefaultSource(), []int{5}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad index err = %v", err)
	}
	s, err := next.CalculateScore(Sixes)
	if err != nil || s.Points != 12 || s.Category != Sixes {
		t.Errorf("score = %+v, %v", s, err)
	}
}

func TestRestoreTurn(t *testing.T) {
	d := MustDiceSet(1, 1, 2, 2, 3)
	if _, err := RestoreTurn(0, nil); err != nil {
		t.Errorf("RestoreTurn(0, nil): %v", err)
	}
	tr, err := RestoreTurn(2, &d)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := tr.Dice(); !ok || got != d {
		t.Errorf("dice = %v, %t", got.Values(), ok)
	}
	for _, bad := range []struct {
		n    int
		dice *DiceSet
	}{{1, nil}, {0, &d}, {4, &d}, {-1, nil}} {
		if _, err := RestoreTurn(bad.n, bad.dice); !errors.Is(err, ErrValidation) {
			t.Errorf("RestoreTurn(%d, %v) err = %v", bad.n, bad.dice != nil, err)
		}
	}
}
