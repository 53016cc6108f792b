// internal/guess/history.go
//
// History: the flat, round-chunked record of guessed letters.
// Responsibilities:
//   - Validate chunking, feedback and letters without padding or truncating.
//   - Iterate rounds and append new ones without mutating the original.

package guess

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrMalformedHistory is returned for histories that cannot be chunked into
// rounds, or that carry unresolved feedback or non-letter bytes.
var ErrMalformedHistory = errors.New("malformed history")

// History is an ordered list of guessed letters; every consecutive chunk of
// WordLength entries is one guess round.
type History struct {
	WordLength int
	Letters    []LetterGuess
}

// NewHistory builds a validated History from whole rounds.
func NewHistory(wordLength int, rounds ...[]LetterGuess) (History, error) {
	h := History{WordLength: wordLength}
	for _, r := range rounds {
		h.Letters = append(h.Letters, r...)
	}
	if err := h.Validate(); err != nil {
		return History{}, err
	}
	return h, nil
}

// Validate checks the chunking invariant and every letter. It never pads or
// truncates: a trailing partial round is an error.
func (h History) Validate() error {
	if h.WordLength <= 0 {
		return fmt.Errorf("%w: word length %d", ErrMalformedHistory, h.WordLength)
	}
	if len(h.Letters)%h.WordLength != 0 {
		return fmt.Errorf("%w: %d letters is not a multiple of word length %d",
			ErrMalformedHistory, len(h.Letters), h.WordLength)
	}
	for i, g := range h.Letters {
		if !g.Color.Valid() {
			return fmt.Errorf("%w: letter %d has unresolved feedback", ErrMalformedHistory, i)
		}
		if _, ok := normalizeLetter(g.Letter); !ok {
			return fmt.Errorf("%w: letter %d is %q, want a-z or A-Z", ErrMalformedHistory, i, g.Letter)
		}
	}
	return nil
}

// NumRounds returns the number of complete rounds.
func (h History) NumRounds() int {
	if h.WordLength <= 0 {
		return 0
	}
	return len(h.Letters) / h.WordLength
}

// Rounds yields each round in history order. Callers should Validate first;
// a trailing partial round is not yielded.
func (h History) Rounds() iter.Seq2[int, []LetterGuess] {
	return func(yield func(int, []LetterGuess) bool) {
		for i := range h.NumRounds() {
			start := i * h.WordLength
			if !yield(i, h.Letters[start:start+h.WordLength:start+h.WordLength]) {
				return
			}
		}
	}
}

// WithRound returns a copy of h with one more round appended. h itself is
// left untouched.
func (h History) WithRound(round []LetterGuess) (History, error) {
	if len(round) != h.WordLength {
		return History{}, fmt.Errorf("%w: round has %d letters, want %d",
			ErrMalformedHistory, len(round), h.WordLength)
	}
	next := History{
		WordLength: h.WordLength,
		Letters:    append(slices.Clip(slices.Clone(h.Letters)), round...),
	}
	if err := next.Validate(); err != nil {
		return History{}, err
	}
	return next, nil
}

// Equal reports whether two histories hold the same rounds.
func (h History) Equal(o History) bool {
	return h.WordLength == o.WordLength && slices.Equal(h.Letters, o.Letters)
}
