package normalize

import "strings"

// Sanitize strips every rune outside the allow-set (ASCII letters, digits,
// space, []()-'. and the decorative font symbols), collapses runs of spaces,
// and trims the ends. It is total and idempotent; any input degrades to a
// plain lookup key rather than an error.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastSpace := false
	for _, r := range name {
		if !allowed(r) {
			continue
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}

	return strings.Trim(b.String(), " ")
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	switch r {
	case ' ', '[', ']', '(', ')', '-', '\'', '.':
		return true
	}
	return decorativeRunes[r]
}
