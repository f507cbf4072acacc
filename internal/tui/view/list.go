package view

import (
	"html"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
)

const (
	rowsPerPost    = 2
	noTextFallback = "Not a text post"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ListingLines renders the posts that fit in height rows, keeping the
// selected post near the middle.
func ListingLines(posts []reddit.Post, selected, width, height int, th tuitheme.Theme) []string {
	if len(posts) == 0 {
		return nil
	}
	visible := max(1, height/rowsPerPost)
	start, end := state.CenteredWindow(len(posts), selected, visible)
	lines := make([]string, 0, (end-start)*rowsPerPost)
	for i := start; i < end; i++ {
		active := i == selected
		lines = append(lines, PostHeadline(posts[i], active, width, th))
		lines = append(lines, th.RenderActiveLine(active, "     "+th.Preview.Render(truncate(PreviewText(posts[i]), width-5))))
	}
	return lines
}

func PostHeadline(post reddit.Post, active bool, width int, th tuitheme.Theme) string {
	cursor := "  "
	if active {
		cursor = ">>"
	}
	visited := " "
	if post.Visited {
		visited = "•"
	}
	prefix := cursor + visited + "  "
	sub := post.Subreddit
	available := width - visibleLen(prefix) - visibleLen(sub) - 1
	title := truncate(strings.TrimSpace(post.Title), max(1, available))
	line := prefix + th.Subreddit.Render(sub) + " " + th.StylePostTitle(post.Visited, title)
	return th.RenderActiveLine(active, line)
}

// PreviewText is the self-text flattened to a single line.
func PreviewText(post reddit.Post) string {
	text := strings.Join(strings.Fields(html.UnescapeString(post.SelfText)), " ")
	if text == "" {
		return noTextFallback
	}
	return text
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func visibleLen(s string) int {
	return runewidth.StringWidth(reANSICodes.ReplaceAllString(s, ""))
}
