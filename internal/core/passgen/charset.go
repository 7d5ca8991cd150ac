package passgen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates malformed construction or generation input.
	ErrInvalidArgument = errors.New("passgen: invalid argument")
	// ErrIndexOutOfRange indicates an indexed charset access beyond its size.
	ErrIndexOutOfRange = errors.New("passgen: index out of range")
)

// Common character sets for building charsets.
const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "@_-#~!&"
)

// CharacterSet is an immutable ordered collection of characters representing
// one category (e.g. lowercase letters). Characters may repeat; order matters
// for indexed lookup only.
type CharacterSet struct {
	runes []rune
}

// NewCharacterSet builds a character set from the provided characters.
func NewCharacterSet(characters string) (CharacterSet, error) {
	if characters == "" {
		return CharacterSet{}, fmt.Errorf("%w: character set must not be empty", ErrInvalidArgument)
	}
	return CharacterSet{runes: []rune(characters)}, nil
}

// MustCharacterSet builds a character set and panics on empty input. Intended
// for package-level definitions of well-known sets.
func MustCharacterSet(characters string) CharacterSet {
	set, err := NewCharacterSet(characters)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of characters in the set.
func (s CharacterSet) Len() int {
	return len(s.runes)
}

// At returns the i-th character of the set.
func (s CharacterSet) At(i int) rune {
	return s.runes[i]
}

// Contains reports whether r appears in the set. Matching is exact-case.
func (s CharacterSet) Contains(r rune) bool {
	for _, candidate := range s.runes {
		if candidate == r {
			return true
		}
	}
	return false
}

// String returns the characters of the set in order.
func (s CharacterSet) String() string {
	return string(s.runes)
}

// Charset aggregates character sets with per-set minimum counts and relative
// frequency weights, and caches the cumulative-frequency table used for
// weighted selection.
type Charset struct {
	sets       []CharacterSet
	minCounts  []uint
	cumulative []uint
	total      uint
}

// NewCharset constructs a charset from three parallel slices. It fails when
// the slices differ in length, when no sets are supplied, or when the sum of
// frequencies is zero.
func NewCharset(sets []CharacterSet, minCounts []uint, frequencies []uint) (*Charset, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: at least one character set is required", ErrInvalidArgument)
	}
	if len(sets) != len(minCounts) || len(sets) != len(frequencies) {
		return nil, fmt.Errorf("%w: sets, minimum counts, and frequencies must have equal length (%d, %d, %d)",
			ErrInvalidArgument, len(sets), len(minCounts), len(frequencies))
	}

	cumulative := make([]uint, len(frequencies))
	var total uint
	for i, freq := range frequencies {
		total += freq
		cumulative[i] = total
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: sum of frequencies must be positive", ErrInvalidArgument)
	}

	copiedSets := make([]CharacterSet, len(sets))
	copy(copiedSets, sets)
	copiedMins := make([]uint, len(minCounts))
	copy(copiedMins, minCounts)

	return &Charset{
		sets:       copiedSets,
		minCounts:  copiedMins,
		cumulative: cumulative,
		total:      total,
	}, nil
}

// Size returns the number of character sets.
func (c *Charset) Size() int {
	return len(c.sets)
}

// SetAt returns the i-th character set.
func (c *Charset) SetAt(i int) (CharacterSet, error) {
	if i < 0 || i >= len(c.sets) {
		return CharacterSet{}, fmt.Errorf("%w: set index %d of %d", ErrIndexOutOfRange, i, len(c.sets))
	}
	return c.sets[i], nil
}

// MinimumCountAt returns the i-th minimum count.
func (c *Charset) MinimumCountAt(i int) (uint, error) {
	if i < 0 || i >= len(c.minCounts) {
		return 0, fmt.Errorf("%w: minimum count index %d of %d", ErrIndexOutOfRange, i, len(c.minCounts))
	}
	return c.minCounts[i], nil
}

// MinimumTotal returns the sum of all per-set minimum counts.
func (c *Charset) MinimumTotal() uint {
	var total uint
	for _, min := range c.minCounts {
		total += min
	}
	return total
}

// TotalFrequency returns the exclusive upper bound for weighted sampling.
func (c *Charset) TotalFrequency() uint {
	return c.total
}

// SetIndexForFrequency resolves a drawn value x in [0, TotalFrequency()) to
// the smallest set index i such that x < cumulative[i]. Higher frequency
// means a wider range and therefore a higher selection probability. Falls
// back to index 0 for out-of-range input.
func (c *Charset) SetIndexForFrequency(x uint) int {
	for i, bound := range c.cumulative {
		if x < bound {
			return i
		}
	}
	return 0
}

// Rules returns the (set, minimum count) pairs of this charset in declared
// order, in the shape consumed by CheckRequirements.
func (c *Charset) Rules() []Rule {
	rules := make([]Rule, len(c.sets))
	for i := range c.sets {
		rules[i] = Rule{Set: c.sets[i], MinCount: c.minCounts[i]}
	}
	return rules
}
