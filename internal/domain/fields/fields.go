// Package fields provides the shared field length limits and byte-safe
// string helpers used by every validator.
package fields

import "strings"

const (
	MaxFieldLen      = 1000
	MaxEmailLen      = 254
	MaxBranchNameLen = 36
	MaxShaFieldLen   = 40
	ShortShaLen      = 7
)

// LenCheck classifies a field against a byte-length budget.
type LenCheck int

const (
	LenValid LenCheck = iota
	LenTooShort
	LenTooLong
)

// CheckLen trims value and classifies its byte length against max.
// The returned string is the trimmed value, truncated when too long.
func CheckLen(value string, max int) (LenCheck, string) {
	trimmed := strings.TrimSpace(value)
	switch {
	case len(trimmed) == 0:
		return LenTooShort, trimmed
	case len(trimmed) <= max:
		return LenValid, trimmed
	default:
		return LenTooLong, Truncate(trimmed, max)
	}
}

// Truncate trims value and cuts it to at most max bytes without splitting a
// UTF-8 sequence.
func Truncate(value string, max int) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) <= max {
		return trimmed
	}
	cut := max
	for cut > 0 && !utf8Start(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
