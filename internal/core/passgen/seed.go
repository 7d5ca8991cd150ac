package passgen

import "fmt"

type seedKind int

const (
	seedKindInt seedKind = iota
	seedKindText
)

// Seed is the deterministic input that fully determines a generated password.
// It is a two-case tagged variant: an unsigned integer or a text string.
type Seed struct {
	kind   seedKind
	number uint64
	text   string
}

// IntSeed builds a seed from an unsigned integer value.
func IntSeed(value uint64) Seed {
	return Seed{kind: seedKindInt, number: value}
}

// TextSeed builds a seed from a text string.
func TextSeed(text string) Seed {
	return Seed{kind: seedKindText, text: text}
}

// IsText reports whether the seed carries a string value.
func (s Seed) IsText() bool {
	return s.kind == seedKindText
}

// String renders the seed for diagnostics. The text form is not included
// verbatim so seeds can be logged without leaking provisioning input.
func (s Seed) String() string {
	if s.kind == seedKindText {
		return fmt.Sprintf("text(len=%d)", len(s.text))
	}
	return fmt.Sprintf("int(%d)", s.number)
}
