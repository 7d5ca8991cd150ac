package passgen

import "strings"

// Rule pairs a character set with the minimum number of its characters a
// password must contain. Frequency weights play no part in validation.
type Rule struct {
	Set      CharacterSet
	MinCount uint
}

// CheckRequirements reports whether password satisfies the composition
// policy. Rules are applied in order and the check short-circuits on the
// first failure:
//
//  1. the password must be at least minLength runes long;
//  2. for every rule, the password must contain at least MinCount characters
//     from the rule's set (character matching is always exact-case);
//  3. no excluded pattern may match the whole password. Patterns support '*'
//     as a wildcard for any run of characters; caseSensitive controls only
//     this pattern matching.
//
// A password that does not qualify is a normal false result, never an error.
func CheckRequirements(password string, minLength int, rules []Rule, excluded []string, caseSensitive bool) bool {
	runes := []rune(password)
	if len(runes) < minLength {
		return false
	}

	for _, rule := range rules {
		if rule.MinCount == 0 {
			continue
		}
		var count uint
		for _, r := range runes {
			if !rule.Set.Contains(r) {
				continue
			}
			count++
			if count >= rule.MinCount {
				break
			}
		}
		if count < rule.MinCount {
			return false
		}
	}

	candidate := password
	if !caseSensitive {
		candidate = strings.ToLower(password)
	}
	for _, pattern := range excluded {
		if !caseSensitive {
			pattern = strings.ToLower(pattern)
		}
		if matchWildcard(pattern, candidate) {
			return false
		}
	}

	return true
}

// matchWildcard matches pattern against the whole candidate, where '*'
// matches any run of characters (including none). All other characters,
// including '?', are literals.
func matchWildcard(pattern, candidate string) bool {
	p := []rune(pattern)
	s := []rune(candidate)

	pi, si := 0, 0
	star, backtrack := -1, 0

	for si < len(s) {
		switch {
		case pi < len(p) && p[pi] == '*':
			star = pi
			backtrack = si
			pi++
		case pi < len(p) && p[pi] == s[si]:
			pi++
			si++
		case star >= 0:
			pi = star + 1
			backtrack++
			si = backtrack
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
