// Package sanitize cleans user-submitted text before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()

	// markup matches the start of an element, end tag, comment or directive.
	markup = regexp.MustCompile(`<[A-Za-z/!?]`)
)

// Text strips all markup and surrounding whitespace and returns plain text.
// Used for names, titles and tags.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Content cleans question bodies, sample answers and attempts. Plain text,
// including code with bare < > and &, is kept as submitted. Input carrying
// markup is treated as HTML: safe formatting stays, scripts, handlers and
// unsafe URLs are dropped.
func Content(s string) string {
	s = strings.TrimSpace(s)
	if !markup.MatchString(s) {
		return s
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Tags cleans each tag with Text and drops the ones left empty.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if c := Text(t); c != "" {
			out = append(out, c)
		}
	}
	return out
}
