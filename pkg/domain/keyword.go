package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKeyword trims surrounding whitespace. The casing the user typed is kept.
func NormalizeKeyword(word string) string {
	return strings.TrimSpace(word)
}

// KeywordKey returns the identity of a keyword: trimmed, NFC-normalised and lowercased
// rune by rune. Two keywords with the same key cannot coexist in a configuration.
// Simple case mapping keeps identity in line with case-insensitive matching, so "ß"
// and "ss" stay distinct keywords.
func KeywordKey(word string) string {
	return strings.ToLower(norm.NFC.String(NormalizeKeyword(word)))
}

// IsWordRune reports whether r counts as part of a word for keyword anchoring:
// letters (accented ones included), combining marks, decimal digits and underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// IsWordLike reports whether the keyword contains at least one word rune.
// Word-like keywords only match whole tokens; symbol keywords (==, >=) match anywhere.
func IsWordLike(word string) bool {
	return strings.IndexFunc(word, IsWordRune) >= 0
}
