package utils

import (
	"github.com/microcosm-cc/bluemonday"
)

// Letters are plain text; everything a user types (reasons, template bodies,
// type names) is stripped of markup before it is echoed into a page.
var strictPolicy = bluemonday.StrictPolicy()

// StripHTML removes all HTML tags from user-entered content.
func StripHTML(s string) string {
	return strictPolicy.Sanitize(s)
}
