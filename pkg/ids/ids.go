// Package ids generates the short, opaque, URL-safe identifiers used for
// every entity in the store (history records, items, collections, tabs,
// menu/clip edges).
package ids

import (
	"crypto/rand"
	"fmt"
)

// alphabet mirrors the URL-safe set used throughout the store: letters,
// digits, underscore and hyphen. No padding characters, no ambiguity with
// path separators.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// Length is the fixed size of a generated id; well under the 21-char
// ceiling the store requires.
const Length = 16

// New returns a fresh random id. It only fails if the system CSPRNG is
// unavailable, which callers treat as fatal.
func New() string {
	id, err := generate(Length)
	if err != nil {
		panic(fmt.Sprintf("ids: failed to generate id: %v", err))
	}
	return id
}

func generate(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
