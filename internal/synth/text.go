// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagRe   = regexp.MustCompile(`<[^<]+?>`)
	breakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
	spaceRe = regexp.MustCompile(`[ \t]{2,}`)
)

// DisplayValue renders a cell value for a display field. Embedded markup
// is kept as-is; newlines become line breaks.
func DisplayValue(v string) string {
	return strings.ReplaceAll(v, "\n", "<br>")
}

// DisplayIdentifier escapes an identifier for a display field so reused
// data cannot inject markup. Newlines become line breaks.
func DisplayIdentifier(id string) string {
	return strings.ReplaceAll(html.EscapeString(id), "\n", "<br>")
}

// Speech renders text for the TTS fields: newlines and explicit line
// breaks become ". " so the voice pauses, entities are decoded so they are
// not spelled out, and markup tags are removed, including tags that were
// entity-escaped in the source.
func Speech(text string) string {
	text = strings.ReplaceAll(text, "\n", ". ")
	text = html.UnescapeString(text)
	text = breakRe.ReplaceAllString(text, ". ")
	text = tagRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Slug normalizes text for use inside a tag: trimmed, spaces become
// underscores, and "&" becomes "and".
func Slug(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, " ", "_")
	return strings.ReplaceAll(text, "&", "and")
}
