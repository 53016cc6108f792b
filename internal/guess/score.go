// internal/guess/score.go
//
// Reference scorer: produces the feedback round a Wordle board shows for a
// guess against a known answer. Used to build rounds from a known answer and
// to check derivation against real game feedback.

package guess

import (
	"fmt"
	"strings"
)

// Score implements the standard two-pass Wordle scoring.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count remaining (non-correct) answer letters by letter index.
//
// Pass 2:
//   - For each non-correct guess letter, left to right: if there is remaining
//     count for that letter, mark Present and decrement; otherwise Absent.
func Score(answer, word string) ([]LetterGuess, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	word = strings.ToLower(strings.TrimSpace(word))
	if len(answer) == 0 || len(answer) != len(word) {
		return nil, fmt.Errorf("%w: cannot score %q against %q", ErrMalformedHistory, word, answer)
	}
	if !isAlpha(answer) || !isAlpha(word) {
		return nil, fmt.Errorf("%w: score inputs must be letters a-z", ErrMalformedHistory)
	}

	n := len(word)
	res := make([]LetterGuess, n)
	var counts [26]int

	for i := 0; i < n; i++ {
		res[i].Letter = word[i]
		if word[i] == answer[i] {
			res[i].Color = Correct
		} else {
			counts[answer[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if res[i].Color == Correct {
			continue
		}
		j := word[i] - 'a'
		if counts[j] > 0 {
			res[i].Color = Present
			counts[j]--
		} else {
			res[i].Color = Absent
		}
	}
	return res, nil
}

// isAlpha checks that a string consists only of lowercase a-z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
