package domain

import (
	"time"

	"github.com/ludaimi/passforge/internal/core/passgen"
)

// CharsetRule is the persisted form of one character-set entry in a profile:
// the characters themselves, the minimum number of them a password must
// contain, and the relative frequency weight used during generation.
type CharsetRule struct {
	Characters string `json:"characters"`
	MinCount   uint   `json:"min_count"`
	Frequency  uint   `json:"frequency"`
}

// Profile is a named, reusable charset configuration. Profiles are built
// once and reused across many provisioning runs; they never contain seeds or
// generated values.
type Profile struct {
	ID                    string
	Name                  string
	Description           string
	Rules                 []CharsetRule
	MinLength             int
	MaxLength             int
	ExcludedPatterns      []string
	CaseSensitivePatterns bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Charset materializes the profile's rules into a generation charset.
// Construction errors surface the core's invalid-argument taxonomy.
func (p Profile) Charset() (*passgen.Charset, error) {
	sets := make([]passgen.CharacterSet, 0, len(p.Rules))
	minCounts := make([]uint, 0, len(p.Rules))
	frequencies := make([]uint, 0, len(p.Rules))

	for _, rule := range p.Rules {
		set, err := passgen.NewCharacterSet(rule.Characters)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
		minCounts = append(minCounts, rule.MinCount)
		frequencies = append(frequencies, rule.Frequency)
	}

	return passgen.NewCharset(sets, minCounts, frequencies)
}

// ValidationRules materializes the profile's rules for requirement checking.
// Frequencies are irrelevant to validation.
func (p Profile) ValidationRules() ([]passgen.Rule, error) {
	rules := make([]passgen.Rule, 0, len(p.Rules))
	for _, rule := range p.Rules {
		set, err := passgen.NewCharacterSet(rule.Characters)
		if err != nil {
			return nil, err
		}
		rules = append(rules, passgen.Rule{Set: set, MinCount: rule.MinCount})
	}
	return rules, nil
}
