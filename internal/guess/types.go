// internal/guess/types.go
//
// Core type definitions for guess feedback.
// Defines:
//   - Feedback: per-letter result of one guessed letter (correct/present/absent).
//   - LetterGuess: one letter at one position of a guess round, with its feedback.

package guess

import (
	"fmt"
	"strings"
)

// Feedback is the tri-state signal for one letter at one position.
// The zero value is not a valid Feedback: it stands for a tile
// that has not been resolved yet and must never reach derivation.
type Feedback uint8

const (
	// Correct: the letter is at this exact position in the secret word.
	Correct Feedback = iota + 1
	// Present: the letter is in the secret word, but not at this position.
	Present
	// Absent: the letter does not occur (or not this many times) in the secret word.
	Absent
)

// String returns the canonical name used in JSON.
func (f Feedback) String() string {
	switch f {
	case Correct:
		return "Correct"
	case Present:
		return "Present"
	case Absent:
		return "Absent"
	}
	return fmt.Sprintf("Feedback(%d)", uint8(f))
}

// Valid reports whether f is one of the three resolved values.
func (f Feedback) Valid() bool {
	return f == Correct || f == Present || f == Absent
}

// ParseFeedback accepts the canonical names case-insensitively, plus the
// tile colors (green/yellow/gray) and the game engine's marks (hit/present/miss).
func ParseFeedback(s string) (Feedback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "green", "hit":
		return Correct, nil
	case "present", "yellow":
		return Present, nil
	case "absent", "gray", "grey", "miss":
		return Absent, nil
	}
	return 0, fmt.Errorf("%w: unknown feedback %q", ErrMalformedHistory, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Feedback) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: unresolved feedback %d", ErrMalformedHistory, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Feedback) UnmarshalText(b []byte) error {
	v, err := ParseFeedback(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// LetterGuess is one letter placed at one position within one guess round.
type LetterGuess struct {
	Color  Feedback
	Letter byte // a-z or A-Z; compared case-insensitively
}

// NewLetterGuess builds a LetterGuess, normalizing the letter to lowercase.
// Letters outside a-z/A-Z are rejected as malformed.
func NewLetterGuess(color Feedback, letter byte) (LetterGuess, error) {
	if !color.Valid() {
		return LetterGuess{}, fmt.Errorf("%w: unresolved feedback for %q", ErrMalformedHistory, letter)
	}
	l, ok := normalizeLetter(letter)
	if !ok {
		return LetterGuess{}, fmt.Errorf("%w: invalid letter %q", ErrMalformedHistory, letter)
	}
	return LetterGuess{Color: color, Letter: l}, nil
}

// Index maps the letter to 0..25 regardless of case. Only meaningful for
// validated guesses.
func (g LetterGuess) Index() int {
	l, _ := normalizeLetter(g.Letter)
	return int(l - 'a')
}

// normalizeLetter lowercases an ASCII letter and reports whether b was one.
func normalizeLetter(b byte) (byte, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return b, true
	case b >= 'A' && b <= 'Z':
		return b + ('a' - 'A'), true
	}
	return 0, false
}
