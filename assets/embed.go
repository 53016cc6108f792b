// assets/embed.go
//
// Embedded data files: the default word list and a sample history.

package assets

import (
	"embed"
)

// FS holds the default word list and a sample guess history so the binary
// works without any files configured.
//
//go:embed wordlist.txt sample_history.json
var FS embed.FS

// WordList returns the embedded newline-delimited word list.
func WordList() (string, error) {
	b, err := FS.ReadFile("wordlist.txt")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SampleHistory returns the embedded guess history as JSON.
func SampleHistory() ([]byte, error) {
	return FS.ReadFile("sample_history.json")
}
