package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord trims surrounding space and composes the word to NFC, so that "u" followed by
// a combining diaeresis matches a dictionary entry spelled with "ü".
func NormalizeWord(s string) string {
	s = strings.TrimSpace(s)
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// FoldKey is the lookup key used by frequency stores: NFC and lower case.
func FoldKey(s string) string {
	return strings.ToLower(NormalizeWord(s))
}
