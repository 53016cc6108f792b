// internal/words/words.go
//
// Provides word list management for the filter.
//
// Responsibilities:
//   - Hold named word lists as raw newline-delimited text.
//   - Iterate a list lazily, one trimmed word per line, skipping blank lines.
//   - Load lists from a file or fall back to the embedded default.
//   - Keep a concurrency-safe registry of named lists for the HTTP server.
//
// Word lists are not normalized on load: words keep the case they were
// written in, and matching lowercases them. Words of any length are kept.

package words

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/wordle/apps/go-filter/assets"
)

// DefaultName is the registry name of the list loaded at startup.
const DefaultName = "default"

// ErrUnknownList is returned when a named list is not registered.
var ErrUnknownList = errors.New("words: unknown word list")

// List is a named word list.
type List struct {
	Name  string
	text  string
	count int
}

// NewList wraps newline-delimited text as a List.
func NewList(name, text string) *List {
	n := 0
	for range Lines(text) {
		n++
	}
	return &List{Name: name, text: text, count: n}
}

// FromWords builds a List from individual words.
func FromWords(name string, ws []string) *List {
	return NewList(name, strings.Join(ws, "\n"))
}

// Words yields the list's words in order. Each call starts from the top.
func (l *List) Words() iter.Seq[string] { return Lines(l.text) }

// Slice materializes the list.
func (l *List) Slice() []string { return slices.Collect(l.Words()) }

// Len returns the number of non-blank lines.
func (l *List) Len() int { return l.count }

// Lines yields each non-blank line of text with surrounding whitespace
// (including a trailing \r) removed.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for len(rest) > 0 {
			line := rest
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				line, rest = rest[:i], rest[i+1:]
			} else {
				rest = ""
			}
			w := strings.TrimSpace(line)
			if w == "" {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

// Take collects at most n words from seq; n <= 0 means no limit. more is
// true when seq had words left over.
func Take(seq iter.Seq[string], n int) (out []string, more bool) {
	out = []string{}
	for w := range seq {
		if n > 0 && len(out) == n {
			return out, true
		}
		out = append(out, w)
	}
	return out, false
}

// ReadFile loads a list from a newline-delimited file.
func ReadFile(name, path string) (*List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return NewList(name, string(b)), nil
}

// Embedded returns the word list compiled into the binary.
func Embedded() (*List, error) {
	text, err := assets.WordList()
	if err != nil {
		return nil, fmt.Errorf("words: embedded list: %w", err)
	}
	return NewList(DefaultName, text), nil
}

// Default loads the default list from path, or the embedded list when path
// is empty. An empty list is an error.
func Default(path string) (*List, error) {
	var (
		l   *List
		err error
	)
	if path != "" {
		l, err = ReadFile(DefaultName, path)
	} else {
		l, err = Embedded()
	}
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, errors.New("words: default list is empty")
	}
	return l, nil
}

// Info summarizes a registered list.
type Info struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Registry is a concurrency-safe set of named lists.
type Registry struct {
	mu    sync.RWMutex     // guards lists
	lists map[string]*List // keyed by List.Name
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{lists: make(map[string]*List)}
}

// Put adds or replaces a list.
func (r *Registry) Put(l *List) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[l.Name] = l
}

// Get looks up a list by name.
func (r *Registry) Get(name string) (*List, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.lists[name]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownList, name)
}

// Delete removes a list and reports whether it was registered.
func (r *Registry) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.lists[name]
	delete(r.lists, name)
	return ok
}

// List returns every registered list, sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.lists))
	for _, l := range r.lists {
		out = append(out, Info{Name: l.Name, Count: l.Len()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
