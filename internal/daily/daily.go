// Package daily derives the shared dice stream for the daily challenge.
// Every player of the same UTC day draws from the same seeded sequence.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/yacht/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date string, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	// first 8 bytes as the seed
	return binary.BigEndian.Uint64(sum[:8])
}

// Source returns the dice source for a given roll of a daily game.
// The stream depends only on (date, salt, turn, roll), so identical
// decisions yield identical dice for every player that day.
func Source(date, salt string, turnNumber, rollCount int) game.Source {
	return game.SeededSource(Seed(date, salt), uint64(turnNumber*game.MaxRolls+rollCount))
}
