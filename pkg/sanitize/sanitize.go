package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips every HTML tag from s and returns plain text with
// entities decoded and whitespace collapsed.
func Text(s string) string {
	if s == "" {
		return s
	}

	// Keep words on either side of a block boundary apart.
	s = strings.ReplaceAll(s, "</p>", " ")
	s = strings.ReplaceAll(s, "<br>", " ")
	s = strings.ReplaceAll(s, "</div>", " ")

	clean := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// TextPtr is Text for optional fields.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Text(*s)
	return &v
}
