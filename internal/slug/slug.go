package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a URL slug from a display name: lowercase, runs of anything
// outside [a-z0-9] collapsed to one hyphen, no hyphen at either end.
func Make(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
