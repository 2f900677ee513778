// Package sanitize cleans operator-entered free text before it is stored on
// payments, movements and settings.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips all markup, trims surrounding space and caps the result at max
// runes. A non-positive max leaves the length alone.
func Text(s string, max int) string {
	s = strings.TrimSpace(strictPolicy.Sanitize(s))
	if max > 0 && utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}

// Last4 keeps at most the first four characters, as printed on vouchers.
func Last4(s string) string {
	return Text(s, 4)
}
