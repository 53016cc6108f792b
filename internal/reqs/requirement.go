// internal/reqs/requirement.go
//
// Requirement: the constraint set derived from a guess history.
// Responsibilities:
//   - Derive per-letter minimum and exact counts, fixed letters and
//     per-position exclusions from every round of a history.
//   - Expose read-only accessors; a Requirement is never mutated after Derive.
//
// Notes:
//   - Per-position exclusions are 26-bit letter masks, one uint32 per position.
//   - A zero byte in fixed means "no letter fixed at this position".

package reqs

import (
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
)

// ErrConflictingFeedback is returned under the Strict policy when rounds
// disagree about the secret word.
var ErrConflictingFeedback = errors.New("conflicting feedback")

// FixedPolicy decides what happens when two rounds mark different letters
// Correct at the same position.
type FixedPolicy int

const (
	// LatestWins lets the later round overwrite the fixed letter.
	LatestWins FixedPolicy = iota
	// Strict fails derivation on any contradiction between rounds.
	Strict
)

// ParseFixedPolicy maps "latest" / "strict" to a FixedPolicy.
func ParseFixedPolicy(s string) (FixedPolicy, error) {
	switch s {
	case "", "latest", "latest_wins", "latest-wins":
		return LatestWins, nil
	case "strict":
		return Strict, nil
	}
	return LatestWins, fmt.Errorf("unknown fixed policy %q", s)
}

func (p FixedPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "latest"
}

type options struct {
	policy    FixedPolicy
	roundCaps bool
}

// Option configures Derive.
type Option func(*options)

// WithFixedPolicy selects how disagreeing Correct marks are handled.
func WithFixedPolicy(p FixedPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithRoundTotalCaps makes an Absent cap its letter at the round's total
// Correct+Present count instead of the count seen so far in the round.
// Feedback scored with greens first (see guess.Score) can mark an early
// duplicate Absent before a later Correct of the same letter; this option
// keeps such histories satisfiable by the answer.
func WithRoundTotalCaps() Option {
	return func(o *options) { o.roundCaps = true }
}

// Requirement is the immutable constraint set for one word length.
type Requirement struct {
	wordLength int
	minCount   [26]int
	exactCount [26]int
	exactSet   uint32   // bit c set: exactCount[c] applies
	fixed      []byte   // per position, 0 if unset
	excluded   []uint32 // per position letter mask
}

// Derive builds the Requirement for a history. Malformed histories are
// rejected with guess.ErrMalformedHistory; nothing is padded or truncated.
//
// Each round is walked left to right with a fresh set of counters:
// Correct and Present add to the running count of that letter, Present and
// Absent forbid the letter at their position, and an Absent caps the letter
// at exactly the running count reached when it is seen. The minimum for a
// letter is the largest per-round count seen.
func Derive(h guess.History, opts ...Option) (*Requirement, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	r := &Requirement{
		wordLength: h.WordLength,
		fixed:      make([]byte, h.WordLength),
		excluded:   make([]uint32, h.WordLength),
	}
	for i, round := range h.Rounds() {
		var counts, caps [26]int
		var capped uint32

		for p, g := range round {
			c := g.Index()
			letter := byte('a' + c)
			switch g.Color {
			case guess.Correct:
				counts[c]++
				if prev := r.fixed[p]; o.policy == Strict && prev != 0 && prev != letter {
					return nil, fmt.Errorf("%w: round %d fixes %q at position %d, earlier round fixed %q",
						ErrConflictingFeedback, i+1, letter, p+1, prev)
				}
				r.fixed[p] = letter
			case guess.Present:
				counts[c]++
				r.excluded[p] |= 1 << c
			case guess.Absent:
				r.excluded[p] |= 1 << c
				capped |= 1 << c
				caps[c] = counts[c]
			}
		}
		if o.roundCaps {
			caps = counts
		}

		for c := range 26 {
			bit := uint32(1) << c
			if capped&bit != 0 {
				if o.policy == Strict && r.exactSet&bit != 0 && r.exactCount[c] != caps[c] {
					return nil, fmt.Errorf("%w: round %d allows exactly %d %q, earlier round allowed %d",
						ErrConflictingFeedback, i+1, caps[c], 'a'+c, r.exactCount[c])
				}
				r.exactCount[c] = caps[c]
				r.exactSet |= bit
			}
			r.minCount[c] = max(r.minCount[c], counts[c])
		}
	}

	if o.policy == Strict {
		if err := r.checkConsistent(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// checkConsistent looks for constraints no word can satisfy.
func (r *Requirement) checkConsistent() error {
	for c := range 26 {
		if r.exactSet&(1<<c) != 0 && r.exactCount[c] < r.minCount[c] {
			return fmt.Errorf("%w: %q needs at least %d but exactly %d",
				ErrConflictingFeedback, 'a'+c, r.minCount[c], r.exactCount[c])
		}
	}
	for p, f := range r.fixed {
		if f != 0 && r.excluded[p]&(1<<(f-'a')) != 0 {
			return fmt.Errorf("%w: %q is both fixed and excluded at position %d",
				ErrConflictingFeedback, f, p+1)
		}
	}
	return nil
}

// WordLength is the only candidate length that can match.
func (r *Requirement) WordLength() int { return r.wordLength }

// MinCount returns the minimum number of occurrences of letter.
func (r *Requirement) MinCount(letter byte) int {
	c, ok := letterIndex(letter)
	if !ok {
		return 0
	}
	return r.minCount[c]
}

// ExactCount returns the exact number of occurrences of letter, if known.
func (r *Requirement) ExactCount(letter byte) (int, bool) {
	c, ok := letterIndex(letter)
	if !ok || r.exactSet&(1<<c) == 0 {
		return 0, false
	}
	return r.exactCount[c], true
}

// Fixed returns the letter required at pos, if any.
func (r *Requirement) Fixed(pos int) (byte, bool) {
	if pos < 0 || pos >= r.wordLength || r.fixed[pos] == 0 {
		return 0, false
	}
	return r.fixed[pos], true
}

// Excluded returns the letters forbidden at pos in alphabetical order.
func (r *Requirement) Excluded(pos int) []byte {
	if pos < 0 || pos >= r.wordLength {
		return nil
	}
	var out []byte
	for c := range 26 {
		if r.excluded[pos]&(1<<c) != 0 {
			out = append(out, byte('a'+c))
		}
	}
	return out
}

// Equal reports whether two requirements hold the same constraints.
func (r *Requirement) Equal(o *Requirement) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.wordLength != o.wordLength || r.minCount != o.minCount || r.exactSet != o.exactSet {
		return false
	}
	for c := range 26 {
		if r.exactSet&(1<<c) != 0 && r.exactCount[c] != o.exactCount[c] {
			return false
		}
	}
	for p := range r.wordLength {
		if r.fixed[p] != o.fixed[p] || r.excluded[p] != o.excluded[p] {
			return false
		}
	}
	return true
}

// letterIndex lowercases letter and maps it to 0..25.
func letterIndex(letter byte) (int, bool) {
	switch {
	case letter >= 'a' && letter <= 'z':
		return int(letter - 'a'), true
	case letter >= 'A' && letter <= 'Z':
		return int(letter - 'A'), true
	}
	return 0, false
}
