// Package textutil turns post bodies (Reddit markdown or feed HTML) into
// plain text suitable for a terminal preview.
package textutil

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	strict = bluemonday.StrictPolicy()

	// Block closers end in a blank line so paragraphs survive tag stripping.
	blockBreaks = strings.NewReplacer(
		"</p>", "</p>\n\n",
		"</h1>", "</h1>\n\n",
		"</h2>", "</h2>\n\n",
		"</h3>", "</h3>\n\n",
		"</h4>", "</h4>\n\n",
		"</h5>", "</h5>\n\n",
		"</h6>", "</h6>\n\n",
		"</blockquote>", "</blockquote>\n\n",
		"</pre>", "</pre>\n\n",
		"<br>", "<br>\n",
		"<br/>", "<br/>\n",
		"<br />", "<br />\n",
		"<li>", "<li>• ",
	)
)

// PlainText renders markdown and strips the result down to text.
func PlainText(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return normalize(markdown)
	}
	return FromHTML(buf.String())
}

// FromHTML strips all markup from s, keeping paragraph breaks.
func FromHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := strict.Sanitize(blockBreaks.Replace(s))
	return normalize(html.UnescapeString(text))
}

// normalize collapses runs of spaces within lines and runs of blank lines.
func normalize(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) > 0 {
				blank = true
			}
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
