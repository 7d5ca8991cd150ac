package security

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// StrengthReport summarizes a zxcvbn estimate for a password. Scores range
// from 0 (trivially guessable) to 4.
type StrengthReport struct {
	Score   int
	Entropy float64
}

// ScoreStrength estimates the strength of a password. userInputs lets callers
// penalize values the attacker likely knows (identity names, profile names).
func ScoreStrength(password string, userInputs ...string) StrengthReport {
	result := zxcvbn.PasswordStrength(password, userInputs)
	return StrengthReport{
		Score:   result.Score,
		Entropy: result.Entropy,
	}
}
