// Package phone validates Russian phone numbers supplied as free text.
package phone

import (
	"regexp"
	"strings"
)

// russianNumber accepts an optional +7/7/8 prefix followed by a ten-digit
// subscriber number, with single spaces, dashes, or parentheses between the
// groups. Anything else, including a wrong digit count or letters in the
// payload, is rejected.
var russianNumber = regexp.MustCompile(`^(?:\+7|7|8)?[\s\-]?\(?[489]\d{2}\)?[\s\-]?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}$`)

// Valid reports whether the candidate matches the national format. It never
// fails on malformed input; malformed input simply returns false.
func Valid(candidate string) bool {
	return russianNumber.MatchString(strings.TrimSpace(candidate))
}
