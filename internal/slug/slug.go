// Package slug derives normalized, URL-safe identifiers from names.
package slug

import (
	"strconv"
	"strings"
)

// Make lowercases name and collapses every run of non-alphanumeric
// characters into a single hyphen: "Red Shoe" -> "red-shoe".
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	hyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}
	return b.String()
}

// WithSuffix disambiguates a base slug against the number of other rows
// already starting with it: a count of zero keeps the base untouched,
// otherwise the count is appended ("red-shoe" + 1 -> "red-shoe-1").
func WithSuffix(base string, collisions int) string {
	if collisions == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(collisions)
}
