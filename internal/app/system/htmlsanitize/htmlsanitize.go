// Package htmlsanitize strips markup from user-entered text.
//
// Workspace fields (names, titles, descriptions, time notes) are plain text. Anything
// that looks like HTML is removed before it reaches the state tree so that no client
// rendering the JSON can be tricked into injecting it.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes all tags (and script/style bodies), then trims whitespace.
// Entities are decoded again so "Q&A" stays "Q&A".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextPtr applies PlainText through a pointer, keeping nil as nil.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := PlainText(*s)
	return &v
}
