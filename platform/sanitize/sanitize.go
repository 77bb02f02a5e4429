// Package sanitize cleans free text before it reaches matching or display.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)

	entities = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// StripHTML drops markup from s. Entities are decoded and the result is
// stripped again so encoded tags do not survive.
func StripHTML(s string) string {
	out := tagPattern.ReplaceAllString(s, "")
	out = entities.Replace(out)
	out = tagPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Text strips markup and collapses runs of whitespace to one space.
func Text(s string) string {
	return spacePattern.ReplaceAllString(StripHTML(s), " ")
}
