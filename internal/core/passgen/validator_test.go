package passgen

import "testing"

func standardRules(t *testing.T) []Rule {
	t.Helper()
	return []Rule{
		{Set: MustCharacterSet(Lowercase), MinCount: 1},
		{Set: MustCharacterSet(Uppercase), MinCount: 1},
		{Set: MustCharacterSet(Digits), MinCount: 1},
	}
}

func TestCheckRequirementsLength(t *testing.T) {
	if CheckRequirements("abcdef", 8, nil, nil, false) {
		t.Fatalf("expected failure for password shorter than minimum length")
	}
	if !CheckRequirements("abcdefgh", 8, nil, nil, false) {
		t.Fatalf("expected pure length check to pass")
	}
}

func TestCheckRequirementsCharacterClasses(t *testing.T) {
	rules := standardRules(t)

	if !CheckRequirements("abcd3FGH", 8, rules, nil, false) {
		t.Fatalf("expected abcd3FGH to satisfy the policy")
	}
	if CheckRequirements("abcdefg3", 8, rules, nil, false) {
		t.Fatalf("expected failure without an uppercase character")
	}
	if CheckRequirements("ABCDEFG3", 8, rules, nil, false) {
		t.Fatalf("expected failure without a lowercase character")
	}
	if CheckRequirements("abcdEFGH", 8, rules, nil, false) {
		t.Fatalf("expected failure without a digit")
	}
}

func TestCheckRequirementsExactCaseCounting(t *testing.T) {
	// Character-level matching stays exact-case even when the pattern flag
	// requests case-insensitive matching.
	rules := []Rule{{Set: MustCharacterSet(Lowercase), MinCount: 2}}

	if CheckRequirements("ABCDEFGh", 8, rules, nil, false) {
		t.Fatalf("uppercase characters must not count toward a lowercase rule")
	}
	if !CheckRequirements("ABCDEFgh", 8, rules, nil, false) {
		t.Fatalf("expected two lowercase characters to satisfy the rule")
	}
}

func TestCheckRequirementsZeroMinimumTriviallyPasses(t *testing.T) {
	rules := []Rule{{Set: MustCharacterSet(Symbols), MinCount: 0}}

	if !CheckRequirements("abcdefgh", 8, rules, nil, false) {
		t.Fatalf("a zero-minimum rule must not reject anything")
	}
}

func TestCheckRequirementsExclusions(t *testing.T) {
	cases := []struct {
		name          string
		password      string
		pattern       string
		caseSensitive bool
		want          bool
	}{
		{"substring case-insensitive", "XXabYY", "*ab*", false, false},
		{"substring case-insensitive upper", "XXABYY", "*ab*", false, false},
		{"substring case-sensitive miss", "XXABYY", "*ab*", true, true},
		{"substring case-sensitive hit", "XXabYY", "*ab*", true, false},
		{"whole-string literal", "password", "password", false, false},
		{"literal is not substring", "mypassword1", "password", false, true},
		{"prefix", "admin123", "admin*", false, false},
		{"suffix", "xyz2024", "*2024", false, false},
		{"no match", "Zq7#kfLm", "*password*", false, true},
		{"question mark is literal", "abcdefgh", "?bcdefgh", false, true},
		{"star matches empty run", "abcd", "ab*cd", false, false},
		{"multiple stars", "a1b2c3d4", "*b*d*", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckRequirements(tc.password, 0, nil, []string{tc.pattern}, tc.caseSensitive)
			if got != tc.want {
				t.Fatalf("CheckRequirements(%q, pattern %q, caseSensitive=%v) = %v, want %v",
					tc.password, tc.pattern, tc.caseSensitive, got, tc.want)
			}
		})
	}
}

func TestCheckRequirementsExclusionListOrder(t *testing.T) {
	patterns := []string{"*nothing*", "*ab*"}

	if CheckRequirements("XXabYY", 0, nil, patterns, false) {
		t.Fatalf("any matching pattern in the exclusion list must reject the password")
	}
}

func TestMatchWildcard(t *testing.T) {
	cases := []struct {
		pattern   string
		candidate string
		want      bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"", "", true},
		{"", "x", false},
		{"abc", "abc", true},
		{"abc", "abcd", false},
		{"a*c", "abbbc", true},
		{"a*c", "ac", true},
		{"a*c", "ab", false},
		{"**a**", "bca", true},
		{"*a*b*", "xaxbx", true},
		{"*a*b*", "xbxax", false},
	}

	for _, tc := range cases {
		if got := matchWildcard(tc.pattern, tc.candidate); got != tc.want {
			t.Fatalf("matchWildcard(%q, %q) = %v, want %v", tc.pattern, tc.candidate, got, tc.want)
		}
	}
}
