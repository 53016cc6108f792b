// internal/guess/notation.go
//
// Compact round notation: "crane" + "gy_b_" or "crane:gybbb".
// Pattern letters: g c + (correct), y p ~ (present), b a x - _ . (absent).

package guess

import (
	"fmt"
	"strings"
)

// ParseRound turns a guessed word and a feedback pattern of the same length
// into one round. Pattern characters are case-insensitive:
//
//	g c +      correct
//	y p ~      present
//	b a - x _ .  absent
func ParseRound(word, pattern string) ([]LetterGuess, error) {
	if len(word) == 0 || len(word) != len(pattern) {
		return nil, fmt.Errorf("%w: word %q and pattern %q differ in length", ErrMalformedHistory, word, pattern)
	}
	round := make([]LetterGuess, len(word))
	for i := 0; i < len(word); i++ {
		color, err := patternFeedback(pattern[i])
		if err != nil {
			return nil, err
		}
		g, err := NewLetterGuess(color, word[i])
		if err != nil {
			return nil, err
		}
		round[i] = g
	}
	return round, nil
}

// ParseRoundSpec parses the "word:pattern" form, e.g. "sassy:gybbb".
func ParseRoundSpec(spec string) ([]LetterGuess, error) {
	word, pattern, ok := strings.Cut(strings.TrimSpace(spec), ":")
	if !ok {
		return nil, fmt.Errorf("%w: round %q, want WORD:PATTERN", ErrMalformedHistory, spec)
	}
	return ParseRound(word, pattern)
}

// FormatRound is the inverse of ParseRound, using G, Y and _ for the pattern.
func FormatRound(round []LetterGuess) (word, pattern string) {
	var w, p strings.Builder
	for _, g := range round {
		w.WriteByte(g.Letter)
		switch g.Color {
		case Correct:
			p.WriteByte('G')
		case Present:
			p.WriteByte('Y')
		case Absent:
			p.WriteByte('_')
		default:
			p.WriteByte('?')
		}
	}
	return w.String(), p.String()
}

func patternFeedback(c byte) (Feedback, error) {
	switch c {
	case 'g', 'G', 'c', 'C', '+':
		return Correct, nil
	case 'y', 'Y', 'p', 'P', '~':
		return Present, nil
	case 'b', 'B', 'a', 'A', 'x', 'X', '-', '_', '.':
		return Absent, nil
	}
	return 0, fmt.Errorf("%w: unknown pattern character %q", ErrMalformedHistory, c)
}
