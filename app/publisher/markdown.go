package publisher

import (
	"regexp"
	"strings"
)

var (
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// markdownToHTML rewrites the Markdown subset the generator emits (bold,
// italic, inline links) into Telegram HTML. Raw HTML-significant characters
// are escaped first so user text cannot smuggle tags.
func markdownToHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")

	s = linkPattern.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = boldPattern.ReplaceAllString(s, "<b>$1</b>")
	s = italicPattern.ReplaceAllString(s, "<i>$1</i>")

	return s
}
