package reqs

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
)

func history(t *testing.T, wordLength int, specs ...string) guess.History {
	t.Helper()
	var rounds [][]guess.LetterGuess
	for _, s := range specs {
		r, err := guess.ParseRoundSpec(s)
		require.NoError(t, err)
		rounds = append(rounds, r)
	}
	h, err := guess.NewHistory(wordLength, rounds...)
	require.NoError(t, err)
	return h
}

func scored(t *testing.T, answer string, guesses ...string) guess.History {
	t.Helper()
	h := guess.History{WordLength: len(answer)}
	for _, g := range guesses {
		r, err := guess.Score(answer, g)
		require.NoError(t, err)
		h, err = h.WithRound(r)
		require.NoError(t, err)
	}
	return h
}

func mustDerive(t *testing.T, h guess.History, opts ...Option) *Requirement {
	t.Helper()
	r, err := Derive(h, opts...)
	require.NoError(t, err)
	return r
}

func filterAll(r *Requirement, ws ...string) []string {
	return slices.Collect(r.Filter(slices.Values(ws)))
}

func TestSingleCorrectLetter(t *testing.T) {
	h := guess.History{WordLength: 5, Letters: []guess.LetterGuess{
		{Color: guess.Absent, Letter: 'a'},
		{Color: guess.Absent, Letter: 'b'},
		{Color: guess.Correct, Letter: 'c'},
		{Color: guess.Absent, Letter: 'd'},
		{Color: guess.Absent, Letter: 'e'},
	}}
	r := mustDerive(t, h)
	assert.Equal(t, []string{"xxcxx"}, filterAll(r, "abcde", "xxcxx", "fghij"))
}

func TestRepeatedLetterCappedByAbsent(t *testing.T) {
	r := mustDerive(t, history(t, 5, "sassy:gbbbb"))

	exact, ok := r.ExactCount('s')
	require.True(t, ok)
	assert.Equal(t, 1, exact)
	assert.Equal(t, 1, r.MinCount('s'))

	assert.True(t, r.Matches("shine"), "exactly one s, at position 0")
	assert.True(t, r.Matches("SHINE"), "case-insensitive")
	assert.False(t, r.Matches("shots"), "two s")
	assert.False(t, r.Matches("hines"), "s not at position 0")
}

func TestCorrectAtDifferentPositionsAcrossRounds(t *testing.T) {
	h := scored(t, "vivid", "pizza", "radio")
	r := mustDerive(t, h)

	f1, ok := r.Fixed(1)
	require.True(t, ok)
	assert.Equal(t, byte('i'), f1)
	f3, ok := r.Fixed(3)
	require.True(t, ok)
	assert.Equal(t, byte('i'), f3)

	assert.Equal(t, []string{"vivid", "livid", "timid"},
		filterAll(r, "vivid", "video", "livid", "dicey", "timid", "pilot"))
}

func TestMalformedHistory(t *testing.T) {
	letters := make([]guess.LetterGuess, 7)
	for i := range letters {
		letters[i] = guess.LetterGuess{Color: guess.Absent, Letter: 'a' + byte(i)}
	}
	_, err := Derive(guess.History{WordLength: 5, Letters: letters})
	assert.ErrorIs(t, err, guess.ErrMalformedHistory)

	_, err = Derive(guess.History{WordLength: 0})
	assert.ErrorIs(t, err, guess.ErrMalformedHistory)

	_, err = Derive(guess.History{WordLength: 1, Letters: []guess.LetterGuess{{Color: guess.Correct, Letter: '9'}}})
	assert.ErrorIs(t, err, guess.ErrMalformedHistory)
}

func TestAbsentCapsAtRunningCount(t *testing.T) {
	// geese against those: both leading e are gray, the last e is green.
	h := scored(t, "those", "geese")
	r := mustDerive(t, h)

	exact, ok := r.ExactCount('e')
	require.True(t, ok)
	assert.Equal(t, 0, exact)
	assert.Equal(t, 1, r.MinCount('e'))
	assert.False(t, r.Matches("those"))

	_, err := Derive(h, WithFixedPolicy(Strict))
	assert.ErrorIs(t, err, ErrConflictingFeedback)

	r = mustDerive(t, history(t, 5, "geese:bbbyg"))
	exact, ok = r.ExactCount('e')
	require.True(t, ok)
	assert.Equal(t, 0, exact)
	assert.Equal(t, 1, r.MinCount('e'))
}

func TestRoundTotalCaps(t *testing.T) {
	h := scored(t, "those", "geese")
	r := mustDerive(t, h, WithRoundTotalCaps())

	exact, ok := r.ExactCount('e')
	require.True(t, ok)
	assert.Equal(t, 1, exact)
	assert.True(t, r.Matches("those"))
	assert.False(t, r.Matches("eerie"))

	// Absent after the match: both modes agree.
	h = history(t, 5, "sassy:gbbbb")
	assert.True(t, mustDerive(t, h).Equal(mustDerive(t, h, WithRoundTotalCaps())))
}

func TestUppercaseGuessLetters(t *testing.T) {
	upper := guess.History{WordLength: 1, Letters: []guess.LetterGuess{{Color: guess.Correct, Letter: 'C'}}}
	r := mustDerive(t, upper)
	f, ok := r.Fixed(0)
	require.True(t, ok)
	assert.Equal(t, byte('c'), f)
	assert.Equal(t, 1, r.MinCount('c'))
	assert.True(t, r.Matches("c"))
	assert.True(t, r.Matches("C"))

	lower := guess.History{WordLength: 1, Letters: []guess.LetterGuess{{Color: guess.Correct, Letter: 'c'}}}
	assert.True(t, r.Equal(mustDerive(t, lower)))
}

func TestAbsentWithoutOccurrencesMeansZero(t *testing.T) {
	r := mustDerive(t, history(t, 5, "crane:bbbbb"))
	for _, c := range []byte("crane") {
		exact, ok := r.ExactCount(c)
		require.True(t, ok, string(c))
		assert.Equal(t, 0, exact)
	}
	_, ok := r.ExactCount('z')
	assert.False(t, ok)
	assert.Equal(t, []string{"light", "stout"}, filterAll(r, "light", "stout", "train", "abcd"))
}

func TestMinCountIsMaxAcrossRounds(t *testing.T) {
	r := mustDerive(t, history(t, 5, "ember:ybbyb", "hello:bybbb"))
	assert.Equal(t, 2, r.MinCount('e'))
	_, ok := r.ExactCount('e')
	assert.False(t, ok, "no round capped e")
}

func TestPresentExcludesPosition(t *testing.T) {
	r := mustDerive(t, history(t, 5, "crane:bbybb"))
	assert.Equal(t, []byte("a"), r.Excluded(2))
	assert.Equal(t, 1, r.MinCount('a'))
	assert.False(t, r.Matches("plaid"), "a at the excluded position")
	assert.True(t, r.Matches("pasta"), "no exact count: two a allowed")
}

func TestEmptyHistoryMatchesAnyWordOfLength(t *testing.T) {
	r := mustDerive(t, guess.History{WordLength: 5})
	assert.True(t, r.Matches("Zebra"))
	assert.False(t, r.Matches("zebras"))
	assert.False(t, r.Matches("ze-ra"))
}

func TestCandidateWithBadBytesNeverMatches(t *testing.T) {
	r := mustDerive(t, guess.History{WordLength: 5})
	for _, w := range []string{"sh!ne", "shïne", "12345", "", "     "} {
		assert.False(t, r.Matches(w), "%q", w)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	h := history(t, 5, "sassy:gybbb", "shine:gbgyb")
	a := mustDerive(t, h)
	b := mustDerive(t, h)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
	assert.False(t, a.Equal(mustDerive(t, history(t, 5, "sassy:gybbb"))))
}

func TestWrongLengthNeverMatches(t *testing.T) {
	r := mustDerive(t, history(t, 5, "crane:ggggg"))
	assert.True(t, r.Matches("crane"))
	assert.False(t, r.Matches("cranes"))
	assert.False(t, r.Matches("cran"))
}

func TestFixedPolicy(t *testing.T) {
	h := history(t, 5, "abcde:gbbbb", "zbcde:gbbbb")

	r := mustDerive(t, h)
	f, _ := r.Fixed(0)
	assert.Equal(t, byte('z'), f, "latest round wins by default")

	_, err := Derive(h, WithFixedPolicy(Strict))
	assert.ErrorIs(t, err, ErrConflictingFeedback)
}

func TestStrictRejectsContradictions(t *testing.T) {
	tests := []struct {
		name  string
		specs []string
	}{
		{"exact counts disagree", []string{"sassy:gbbbb", "basss:bbbbb"}},
		{"minimum above exact", []string{"sxxxx:gbbbb", "abcds:bbbbb"}},
		{"fixed letter excluded", []string{"abcde:ybbbb", "axxxx:gbbbb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := history(t, 5, tt.specs...)
			_, err := Derive(h, WithFixedPolicy(Strict))
			assert.ErrorIs(t, err, ErrConflictingFeedback)

			_, err = Derive(h)
			assert.NoError(t, err)
		})
	}

	_, err := Derive(scored(t, "vivid", "pizza", "radio"), WithFixedPolicy(Strict))
	assert.NoError(t, err, "consistent feedback passes strict")
}

func TestParseFixedPolicy(t *testing.T) {
	p, err := ParseFixedPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)
	p, err = ParseFixedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LatestWins, p)
	_, err = ParseFixedPolicy("oldest")
	assert.Error(t, err)
}

func TestFilterTextSkipsBlankLines(t *testing.T) {
	r := mustDerive(t, history(t, 5, "crane:gbbbb"))
	got := slices.Collect(r.FilterText("Clump\n\n\r\nchomp\nslate\n  \nCLOTH\r\n"))
	assert.Equal(t, []string{"Clump", "chomp", "CLOTH"}, got)
}

func TestFilterIsRestartableAndIdempotent(t *testing.T) {
	list, err := words.Embedded()
	require.NoError(t, err)
	r := mustDerive(t, history(t, 5, "crane:bbbbb", "moist:bbybg"))

	seq := r.Filter(list.Words())
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "light")

	again := filterAll(r, first...)
	assert.Equal(t, first, again)
}

func TestFilterStopsWhenConsumerStops(t *testing.T) {
	r := mustDerive(t, guess.History{WordLength: 1})
	pulled := 0
	src := func(yield func(string) bool) {
		for _, w := range []string{"a", "b", "c", "d"} {
			pulled++
			if !yield(w) {
				return
			}
		}
	}
	got, more := words.Take(r.Filter(src), 2)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.True(t, more)
	assert.Equal(t, 3, pulled)
}

func TestScoredAnswerAlwaysMatches(t *testing.T) {
	list, err := words.Embedded()
	require.NoError(t, err)
	all := list.Slice()
	openers := []string{"crane", "sassy", "geese", "eerie", "vivid"}

	for i, answer := range all {
		if i%7 != 0 {
			continue
		}
		var h guess.History
		h.WordLength = 5
		prev := len(all) + 1
		for j, opener := range openers[:1+i%len(openers)] {
			round, err := guess.Score(answer, opener)
			require.NoError(t, err)
			h, err = h.WithRound(round)
			require.NoError(t, err)

			r, err := Derive(h, WithFixedPolicy(Strict), WithRoundTotalCaps())
			require.NoError(t, err, "answer %s after %d rounds", answer, j+1)
			require.True(t, r.Matches(answer), "answer %s after %d rounds", answer, j+1)

			n := len(filterAll(r, all...))
			assert.LessOrEqual(t, n, prev, "adding a round never grows the match set")
			prev = n
		}
	}
}

func TestMonotonicSubset(t *testing.T) {
	list, err := words.Embedded()
	require.NoError(t, err)
	all := list.Slice()

	before := filterAll(mustDerive(t, scored(t, "light", "crane")), all...)
	after := filterAll(mustDerive(t, scored(t, "light", "crane", "moist")), all...)
	for _, w := range after {
		assert.Contains(t, before, w)
	}
	assert.Less(t, len(after), len(before))
}

func TestFilterParallel(t *testing.T) {
	list, err := words.Embedded()
	require.NoError(t, err)
	all := list.Slice()
	r := mustDerive(t, history(t, 5, "crane:bbybb"))
	want := filterAll(r, all...)
	require.NotEmpty(t, want)

	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		got, err := r.FilterParallel(context.Background(), all, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.FilterParallel(ctx, all, 4)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.FilterParallel(ctx, all, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequirementJSON(t *testing.T) {
	r := mustDerive(t, history(t, 5, "sassy:gbbbb"))
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"word_length": 5,
		"min_count": {"s": 1},
		"exact_count": {"a": 0, "s": 1, "y": 0},
		"fixed": "s____",
		"excluded": ["", "a", "s", "s", "y"]
	}`, string(b))
}
