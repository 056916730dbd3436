package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeField trims surrounding whitespace and composes the remainder to NFC,
// the exact form validated and stored by every setter.
func NormalizeField(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsValidPersonName reports whether s, once normalized, is a non-empty run of
// letters, spaces, periods, apostrophes, and hyphens.
func IsValidPersonName(s string) bool {
	s = NormalizeField(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			continue
		}
		switch r {
		case ' ', '.', '\'', '-':
			continue
		}
		return false
	}
	return true
}

// IsValidAddressField reports whether s, once normalized, is non-empty and made of
// Latin or Cyrillic letters, digits, spaces, and the punctuation ' / № # - _.
func IsValidAddressField(s string) bool {
	s = NormalizeField(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isAddressRune(r) {
			return false
		}
	}
	return true
}

// IsValidStreetNumber applies IsValidAddressField and additionally requires a digit.
func IsValidStreetNumber(s string) bool {
	if !IsValidAddressField(s) {
		return false
	}
	return strings.ContainsFunc(NormalizeField(s), func(r rune) bool { return r >= '0' && r <= '9' })
}

func isAddressRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я', r == 'ё', r == 'Ё':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	switch r {
	case ' ', '\'', '/', '№', '#', '-', '_':
		return true
	}
	return false
}
