package util

import (
	"sort"
	"strings"
	"unicode"
)

// SortLetters returns the runes of s in ascending order.
func SortLetters(s string) string {
	r := []rune(s)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return string(r)
}

// StripSpaces removes every whitespace rune.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsLetterSet reports whether s is a non-empty run of upper-case letters,
// the shape of a choice answer.
func IsLetterSet(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
