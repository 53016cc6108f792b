// internal/guess/codec.go
//
// JSON encoding for guess histories.
//
// Wire shape:
//   {"word_length": 5, "letters": [{"color": "Correct", "letter": "c"}, ...]}
//
// Decoding is lenient about spelling (see ParseFeedback), accepts a letter as
// either a one-character string or its byte value, and understands the older
// {"word_len", "val"} field names. Encoding always emits the canonical form, so
// encode -> decode -> encode is stable.

package guess

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type letterJSON struct {
	Color  Feedback `json:"color"`
	Letter string   `json:"letter"`
}

// MarshalJSON implements json.Marshaler.
func (g LetterGuess) MarshalJSON() ([]byte, error) {
	if _, err := NewLetterGuess(g.Color, g.Letter); err != nil {
		return nil, err
	}
	return json.Marshal(letterJSON{Color: g.Color, Letter: string([]byte{g.Letter})})
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *LetterGuess) UnmarshalJSON(b []byte) error {
	var raw struct {
		Color  Feedback        `json:"color"`
		Letter json.RawMessage `json:"letter"`
		Char   json.RawMessage `json:"char"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	src := raw.Letter
	if len(src) == 0 {
		src = raw.Char
	}
	letter, err := decodeLetter(src)
	if err != nil {
		return err
	}
	v, err := NewLetterGuess(raw.Color, letter)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func decodeLetter(raw json.RawMessage) (byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing letter", ErrMalformedHistory)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if len(s) != 1 {
			return 0, fmt.Errorf("%w: letter %q must be a single character", ErrMalformedHistory, s)
		}
		return s[0], nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%w: letter: %v", ErrMalformedHistory, err)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("%w: letter byte %d out of range", ErrMalformedHistory, n)
	}
	return byte(n), nil
}

type historyJSON struct {
	WordLength int           `json:"word_length"`
	Letters    []LetterGuess `json:"letters"`
}

// MarshalJSON implements json.Marshaler.
func (h History) MarshalJSON() ([]byte, error) {
	letters := h.Letters
	if letters == nil {
		letters = []LetterGuess{}
	}
	return json.Marshal(historyJSON{WordLength: h.WordLength, Letters: letters})
}

// UnmarshalJSON implements json.Unmarshaler. It decodes but does not
// validate; Validate (or derivation) reports chunking problems.
func (h *History) UnmarshalJSON(b []byte) error {
	var raw struct {
		WordLength *int          `json:"word_length"`
		WordLen    *int          `json:"word_len"`
		Letters    []LetterGuess `json:"letters"`
		Val        []LetterGuess `json:"val"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := History{Letters: raw.Letters}
	switch {
	case raw.WordLength != nil:
		out.WordLength = *raw.WordLength
	case raw.WordLen != nil:
		out.WordLength = *raw.WordLen
	}
	if out.Letters == nil {
		out.Letters = raw.Val
	}
	if len(out.Letters) == 0 {
		out.Letters = nil
	}
	*h = out
	return nil
}
