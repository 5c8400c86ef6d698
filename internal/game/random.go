package game

import "math/rand/v2"

// Source supplies die faces.
//
// IntN returns a value in [0, n). Implementations used from several
// goroutines must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the math/rand/v2 global generator.
func DefaultSource() Source { return globalSource{} }

// SeededSource returns a deterministic PCG-backed source.
// Not safe for concurrent use; create one per roll.
func SeededSource(seed1, seed2 uint64) Source {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// SequenceSource replays fixed faces (1..6) in order, wrapping around.
// Used by tests to make rolls reproducible.
type SequenceSource struct {
	faces []int
	next  int
}

// NewSequenceSource returns a source yielding faces in the given order.
func NewSequenceSource(faces ...int) *SequenceSource {
	return &SequenceSource{faces: append([]int(nil), faces...)}
}

// IntN maps the next face f to f-1, so that IntN(6)+1 == f.
func (s *SequenceSource) IntN(n int) int {
	if len(s.faces) == 0 || n <= 0 {
		return 0
	}
	f := s.faces[s.next%len(s.faces)]
	s.next++
	v := (f - 1) % n
	if v < 0 {
		v += n
	}
	return v
}

// Drawn reports how many faces have been consumed.
func (s *SequenceSource) Drawn() int { return s.next }
