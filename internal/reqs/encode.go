// internal/reqs/encode.go
//
// JSON view of a Requirement for the HTTP API and the derive command.

package reqs

import (
	"encoding/json"
	"strings"
)

// View is the JSON form of a Requirement. Letters that carry no constraint
// are omitted from the count maps; Fixed uses '_' for open positions.
type View struct {
	WordLength int            `json:"word_length"`
	MinCount   map[string]int `json:"min_count"`
	ExactCount map[string]int `json:"exact_count"`
	Fixed      string         `json:"fixed"`
	Excluded   []string       `json:"excluded"`
}

// View returns the Requirement's constraints in display form.
func (r *Requirement) View() View {
	v := View{
		WordLength: r.wordLength,
		MinCount:   map[string]int{},
		ExactCount: map[string]int{},
		Excluded:   make([]string, r.wordLength),
	}
	for c := range 26 {
		l := string(rune('a' + c))
		if r.minCount[c] > 0 {
			v.MinCount[l] = r.minCount[c]
		}
		if r.exactSet&(1<<c) != 0 {
			v.ExactCount[l] = r.exactCount[c]
		}
	}
	var fixed strings.Builder
	for p := range r.wordLength {
		if f := r.fixed[p]; f != 0 {
			fixed.WriteByte(f)
		} else {
			fixed.WriteByte('_')
		}
		v.Excluded[p] = string(r.Excluded(p))
	}
	v.Fixed = fixed.String()
	return v
}

// MarshalJSON implements json.Marshaler.
func (r *Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.View())
}
