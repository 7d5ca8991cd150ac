package passgen

import (
	"math/rand"
	"unicode/utf8"
)

// SeededStream is a deterministic pseudo-random numeric stream. Each
// generation call owns its own instance, so concurrent callers never share
// mutable generator state. The stream is intentionally non-cryptographic:
// reproducibility from the seed is the whole point.
type SeededStream struct {
	rng *rand.Rand
}

// NewSeededStream returns a stream initialized from the given seed.
func NewSeededStream(seed Seed) *SeededStream {
	s := &SeededStream{}
	s.Reseed(seed)
	return s
}

// Reseed re-initializes the stream from the given seed, discarding any
// previous state.
func (s *SeededStream) Reseed(seed Seed) {
	if seed.kind == seedKindText {
		s.reseedText(seed.text)
		return
	}
	s.reseedInt(seed.number)
}

func (s *SeededStream) reseedInt(value uint64) {
	s.rng = rand.New(rand.NewSource(int64(value)))
}

// reseedText derives the numeric seed from a string: the derived value starts
// at the rune count and every code point is folded in, in order, with the
// stream re-initialized at each step. The state after the final step is the
// one used for generation. The fold order is load-bearing: legacy seeded
// passwords are only reproducible if it is preserved exactly.
func (s *SeededStream) reseedText(text string) {
	derived := uint64(utf8.RuneCountInString(text))
	s.reseedInt(derived)
	for _, r := range text {
		derived += uint64(r)
		s.reseedInt(derived)
	}
}

// NextInRange returns a uniformly distributed integer in [min, maxExclusive).
// An empty or inverted range collapses to min.
func (s *SeededStream) NextInRange(min, maxExclusive int) int {
	if maxExclusive <= min {
		return min
	}
	return min + s.rng.Intn(maxExclusive-min)
}

// NextFromSet draws one character uniformly from the set.
func (s *SeededStream) NextFromSet(set CharacterSet) rune {
	return set.At(s.NextInRange(0, set.Len()))
}
