package words

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	text := "Crane\r\n\n  slate \nSASSY\n\n\nlast"
	assert.Equal(t, []string{"Crane", "slate", "SASSY", "last"}, slices.Collect(Lines(text)))
	assert.Empty(t, slices.Collect(Lines("")))
	assert.Empty(t, slices.Collect(Lines("\n\n \n")))
}

func TestLinesStopsEarly(t *testing.T) {
	var got []string
	for w := range Lines("a\nb\nc\nd") {
		got = append(got, w)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestListRestartable(t *testing.T) {
	l := NewList("t", "one\ntwo\n\nthree\n")
	assert.Equal(t, 3, l.Len())
	first := slices.Collect(l.Words())
	second := slices.Collect(l.Words())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"one", "two", "three"}, l.Slice())
}

func TestTake(t *testing.T) {
	l := FromWords("t", []string{"a", "b", "c"})

	got, more := Take(l.Words(), 2)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.True(t, more)

	got, more = Take(l.Words(), 3)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.False(t, more)

	got, more = Take(l.Words(), 0)
	assert.Len(t, got, 3)
	assert.False(t, more)

	got, _ = Take(NewList("e", "").Words(), 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDefault(t *testing.T) {
	l, err := Default("")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, l.Name)
	assert.Greater(t, l.Len(), 100)

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("apple\nberry\n"), 0o644))
	l, err = Default(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "berry"}, l.Slice())

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0o644))
	_, err = Default(empty)
	assert.Error(t, err)

	_, err = Default(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownList)

	r.Put(NewList("zeta", "a\nb"))
	r.Put(NewList("alpha", "c"))
	r.Put(NewList("zeta", "a\nb\nc"))

	l, err := r.Get("zeta")
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []Info{{Name: "alpha", Count: 1}, {Name: "zeta", Count: 3}}, r.List())

	assert.True(t, r.Delete("zeta"))
	assert.False(t, r.Delete("zeta"))
	_, err = r.Get("zeta")
	assert.ErrorIs(t, err, ErrUnknownList)
}
