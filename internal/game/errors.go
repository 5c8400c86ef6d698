package game

import "errors"

// Sentinel errors returned (wrapped) by engine operations.
// Callers classify failures with errors.Is.
var (
	// ErrValidation reports malformed input: bad die value, wrong dice count,
	// blank player name, reroll index out of range, unknown category.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState reports an operation the current state forbids:
	// a fourth roll, a reroll before any roll, scoring without dice,
	// or any move on a completed game.
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicateCategory reports a second score for an already filled category.
	ErrDuplicateCategory = errors.New("category already recorded")
)
