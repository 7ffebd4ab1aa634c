package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"":                                      "",
		"plain":                                 "plain",
		"<p>Hello</p><p>world</p>":              "Hello world",
		"<script>alert(1)</script>Go &amp; SQL": "Go & SQL",
		"  lots   of\n\tspace ":                 "lots of space",
		`<a href="x">link</a> text`:             "link text",
	}

	for in, want := range cases {
		assert.Equal(t, want, Text(in), "input %q", in)
	}
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	in := "<b>bold</b>"
	out := TextPtr(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "bold", *out)
	}
}
