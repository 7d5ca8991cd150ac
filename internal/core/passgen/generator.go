package passgen

import "fmt"

// Generate deterministically produces a password from the charset and seed.
// The target length is drawn uniformly from [minLength, maxLength] inclusive,
// each set's minimum count is filled first in declared order, and the
// remaining positions are filled by frequency-weighted selection. The same
// inputs always produce the same output.
//
// The mandatory characters are front-loaded, not shuffled. That placement is
// an observable, reproducible property of the algorithm; rearranging it would
// break compatibility with previously issued seeds.
func Generate(charset *Charset, seed Seed, minLength, maxLength int) (string, error) {
	if charset == nil {
		return "", fmt.Errorf("%w: charset is required", ErrInvalidArgument)
	}
	if minLength < 0 || minLength > maxLength {
		return "", fmt.Errorf("%w: invalid length range [%d, %d]", ErrInvalidArgument, minLength, maxLength)
	}
	if charset.MinimumTotal() > uint(minLength) {
		return "", fmt.Errorf("%w: minimum password length is less than the sum of per-set minimums", ErrInvalidArgument)
	}

	stream := NewSeededStream(seed)
	length := stream.NextInRange(minLength, maxLength+1)

	out := make([]rune, 0, length)
	for i := 0; i < charset.Size(); i++ {
		set, err := charset.SetAt(i)
		if err != nil {
			return "", err
		}
		min, err := charset.MinimumCountAt(i)
		if err != nil {
			return "", err
		}
		for drawn := uint(0); drawn < min; drawn++ {
			out = append(out, stream.NextFromSet(set))
		}
	}

	for len(out) < length {
		x := uint(stream.NextInRange(0, int(charset.TotalFrequency())))
		set, err := charset.SetAt(charset.SetIndexForFrequency(x))
		if err != nil {
			return "", err
		}
		out = append(out, stream.NextFromSet(set))
	}

	return string(out), nil
}
