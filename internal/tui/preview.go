package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/subnews/internal/reddit"
)

func renderPreview(p *reddit.Post, body string, ack copyAck, width, height, scroll int) string {
	if p == nil {
		return lipglossCenter("Select a post", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(p.Title)

	meta := "r/" + p.Subreddit + " · u/" + p.Author
	if !p.Created.IsZero() {
		meta += " · " + p.Created.Format("Jan 2, 2006 15:04")
	}
	counts := fmt.Sprintf("▲ %s · %s", formatCount(p.Ups), commentsLabel(p.NumComments))

	if body == "" {
		body = "(no text) " + p.URL
	}
	bodyBlock := previewBodyStyle.Width(contentWidth).Render(wrapText(body, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render(p.Link())

	actions := renderCopyActions(p.ID, ack)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		previewMetaStyle.Render(meta),
		itemScoreStyle.Render(counts),
		"",
		bodyBlock,
		"",
		link,
		"",
		actions,
	)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func renderCopyActions(postID string, ack copyAck) string {
	title := copyKeyStyle.Render("[c]") + " copy title"
	if ack.matches(postID, copyTitle) {
		title = copiedStyle.Render("✓ copied title")
	}
	withBody := copyKeyStyle.Render("[y]") + " copy title + text"
	if ack.matches(postID, copyWithBody) {
		withBody = copiedStyle.Render("✓ copied title + text")
	}
	open := copyKeyStyle.Render("[o]") + " open"
	return title + "   " + withBody + "   " + open
}

// wrapText word-wraps each line of s to width, keeping existing line breaks.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
			} else {
				line += " " + w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
