package game

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCategorySections(t *testing.T) {
	if len(Categories()) != NumCategories {
		t.Fatalf("categories = %d", len(Categories()))
	}
	if len(UpperSection()) != 6 || len(LowerSection()) != 7 {
		t.Fatalf("sections = %d/%d", len(UpperSection()), len(LowerSection()))
	}
	for i, c := range UpperSection() {
		face, ok := c.Face()
		if !ok || face != i+1 || !c.IsUpperSection() {
			t.Errorf("%s face = %d, %t", c, face, ok)
		}
	}
	for _, c := range LowerSection() {
		if c.IsUpperSection() {
			t.Errorf("%s reported upper", c)
		}
		if c.DisplayName() == "" {
			t.Errorf("%s has no display name", c)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" full_house ")
	if err != nil || c != FullHouse {
		t.Fatalf("ParseCategory = %q, %v", c, err)
	}
	if _, err := ParseCategory("YAHTZEE"); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v", err)
	}
}

func TestCategoryJSON(t *testing.T) {
	var body struct {
		Category Category `json:"category"`
	}
	if err := json.Unmarshal([]byte(`{"category":"SMALL_STRAIGHT"}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Category != SmallStraight {
		t.Errorf("got %q", body.Category)
	}
	if err := json.Unmarshal([]byte(`{"category":"NOPE"}`), &body); err == nil {
		t.Error("unknown category decoded without error")
	}
}
