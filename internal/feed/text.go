package feed

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`(?s)(<!--.*?-->|<[^>]*>)`)

// CharacterData escapes a description that may contain literal markup so the
// resulting text is safe character data inside an XML document. Stray spaces
// that escaping leaves after paragraph and break tags are removed.
func CharacterData(content string) string {
	escaped := html.EscapeString(content)
	escaped = strings.ReplaceAll(escaped, "&lt;p&gt; ", "&lt;p&gt;")
	escaped = strings.ReplaceAll(escaped, "&lt;/p&gt; ", "&lt;/p&gt;")
	escaped = strings.ReplaceAll(escaped, "&lt;br&gt; ", "&lt;br&gt;")
	return escaped
}

// Summary derives the plain-text summary from a possibly HTML-laden
// description: entities are unescaped, paragraph and break tags become line
// breaks, and every remaining tag or comment is stripped.
func Summary(description string) string {
	s := html.UnescapeString(description)
	s = strings.ReplaceAll(s, "<br>", "\r\n")
	s = strings.ReplaceAll(s, "<p>", "\r\n")
	s = strings.ReplaceAll(s, "</p>", "\r\n")
	return htmlTagPattern.ReplaceAllString(s, "")
}

func parseFileSize(size string) int64 {
	n, err := strconv.ParseInt(size, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
