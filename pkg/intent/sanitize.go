package intent

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var sanitizer = strings.NewReplacer(
	" ", "_",
	",", "_",
	"'", "",
	"’", "",
)

// Sanitize converts a literal choice label into an identifier-safe intent id:
// NFC-normalize, fold spaces and commas to underscores, drop apostrophes,
// lower-case. Two distinct labels can sanitize to the same id ("can't go" and
// "cant go" both yield "cant_go"); Extract surfaces that per its collision
// policy instead of letting one phrasing silently win.
func Sanitize(label string) string {
	return strings.ToLower(sanitizer.Replace(norm.NFC.String(label)))
}
