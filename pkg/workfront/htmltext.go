package workfront

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxCommentTextLength bounds how much text one update entry contributes.
const maxCommentTextLength = 4000

// skippedTextElements are elements whose content never belongs in a
// comment's plain text.
var skippedTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"template": true,
	"iframe":   true,
	"head":     true,
}

// blockTextElements produce a line break in the extracted text.
var blockTextElements = map[string]bool{
	"p":          true,
	"div":        true,
	"br":         true,
	"li":         true,
	"tr":         true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"blockquote": true,
}

// htmlToText reduces an update entry's inner HTML to plain text. Comment
// bodies in Workfront wrap every mention and emoji in markup; only the
// visible text matters here.
func htmlToText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		// Parse only fails on reader errors; a string reader cannot.
		return strings.TrimSpace(rawHTML)
	}

	var builder strings.Builder
	collectText(doc, &builder)
	return tidyText(builder.String())
}

func collectText(n *html.Node, builder *strings.Builder) {
	if builder.Len() >= maxCommentTextLength {
		return
	}
	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if skippedTextElements[name] {
			return
		}
		if blockTextElements[name] {
			builder.WriteByte('\n')
		}
	case html.TextNode:
		// Whitespace inside a text node is layout, not content: collapse
		// it so only block elements produce line breaks.
		if fields := strings.Fields(n.Data); len(fields) > 0 {
			builder.WriteString(strings.Join(fields, " "))
			builder.WriteByte(' ')
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder)
	}
}

// tidyText collapses runs of whitespace and drops empty lines.
func tidyText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	text := strings.Join(lines, "\n")
	if len(text) > maxCommentTextLength {
		cut := maxCommentTextLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
