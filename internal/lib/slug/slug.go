// Package slug checks and builds the URL identifiers events are addressed by.
package slug

import (
	"regexp"
	"strings"

	gslug "github.com/gosimple/slug"
)

var (
	pattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	dashes  = regexp.MustCompile(`-{2,}`)
)

// Valid reports whether s is lowercase alphanumeric words joined by single hyphens.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Make derives a slug from a free-form title. The result is empty when the
// title has nothing transliterable in it.
func Make(title string) string {
	s := gslug.Make(title)
	s = strings.ReplaceAll(s, "_", "-")
	s = dashes.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
