// internal/reqs/match.go
//
// Match predicate: does one candidate word satisfy a Requirement.

package reqs

// Matches reports whether candidate satisfies every constraint. Letters are
// compared case-insensitively; a candidate with any byte outside a-z/A-Z, or
// of the wrong length, never matches.
func (r *Requirement) Matches(candidate string) bool {
	if len(candidate) != r.wordLength {
		return false
	}

	var tally [26]int
	for p := 0; p < len(candidate); p++ {
		c, ok := letterIndex(candidate[p])
		if !ok {
			return false
		}
		if f := r.fixed[p]; f != 0 && int(f-'a') != c {
			return false
		}
		if r.excluded[p]&(1<<c) != 0 {
			return false
		}
		tally[c]++
	}

	for c := range 26 {
		if r.exactSet&(1<<c) != 0 && tally[c] != r.exactCount[c] {
			return false
		}
		if tally[c] < r.minCount[c] {
			return false
		}
	}
	return true
}
