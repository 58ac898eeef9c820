// Package htmlsanitize strips markup from user-entered text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strictPolicy = bluemonday.StrictPolicy()

// PlainText strips all markup, leaving text only. Used for fields that are
// rendered as text, like society descriptions.
func PlainText(s string) string {
	return strictPolicy.Sanitize(s)
}
