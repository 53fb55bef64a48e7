package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r may appear inside a word handed to the splitter.
// Hyphens and apostrophes occur in real compounds ("E-Mail-Adresse").
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '-' || r == '\''
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidWord checks if input should be split at all.
// Returns false for empty or overlong strings, invalid UTF-8, pure numbers and strings
// holding anything but word runes. maxRunes <= 0 disables the length check.
func IsValidWord(s string, maxRunes int) bool {
	if len(s) == 0 || !utf8.ValidString(s) {
		return false
	}
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	for _, r := range s {
		if !IsWordRune(r) {
			return false
		}
	}
	return true
}
