package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/render/selftext"
	"github.com/glabrego/reddit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
)

const sideBySideMinWidth = 100

func TitleBlock(post reddit.Post, width int, th tuitheme.Theme) string {
	inner := max(1, width-2)
	lines := make([]string, 0, 4)
	for _, line := range selftext.Wrap(strings.TrimSpace(post.Title), inner) {
		lines = append(lines, th.Title.Render(line))
	}
	meta := fmt.Sprintf("%s • u/%s • %d points • %d comments", post.Subreddit, post.Author, post.Score, post.NumComments)
	lines = append(lines, th.MetaValue.Render(truncate(meta, inner)))
	return th.Pane(false).Width(inner).Render(strings.Join(lines, "\n"))
}

func PostLines(post reddit.Post, width int) []string {
	lines := selftext.Lines(post, width)
	if len(lines) == 0 {
		return []string{noTextFallback}
	}
	return lines
}

// CommentLines renders each comment as "u/author | body", blank-line
// separated.
func CommentLines(comments []reddit.Comment, width int, th tuitheme.Theme) []string {
	lines := make([]string, 0, len(comments)*3)
	for i, c := range comments {
		if i > 0 {
			lines = append(lines, "")
		}
		author := "u/" + c.Author
		wrapped := selftext.Wrap(author+" | "+strings.TrimSpace(c.Body), width)
		if len(wrapped) > 0 && strings.HasPrefix(wrapped[0], author) {
			wrapped[0] = th.Author.Render(author) + strings.TrimPrefix(wrapped[0], author)
		}
		lines = append(lines, wrapped...)
	}
	return lines
}

// Pane draws lines inside a bordered viewport scrolled to offset.
func Pane(lines []string, offset, width, height int, focused bool, th tuitheme.Theme) string {
	vp := viewport.New(max(1, width-2), max(1, height-2))
	vp.SetContent(strings.Join(lines, "\n"))
	vp.SetYOffset(offset)
	return th.Pane(focused).Render(vp.View())
}

func DetailBody(f Frame, width, height int) string {
	if len(f.Posts) == 0 {
		if f.Loading {
			return "Loading posts…"
		}
		return "No post selected"
	}
	post := f.Posts[state.ClampCursor(f.Nav.Selected, len(f.Posts))]
	title := TitleBlock(post, width, f.Theme)
	remaining := max(4, height-lipgloss.Height(title))

	comments := func(w int) []string {
		switch {
		case len(f.Comments) > 0:
			return CommentLines(f.Comments, max(1, w), f.Theme)
		case f.Loading:
			return []string{"Loading comments…"}
		default:
			return []string{"No comments"}
		}
	}
	postFocused := f.Nav.Focus == state.FocusPost

	if width >= sideBySideMinWidth {
		left := width / 2
		right := width - left
		postPane := Pane(PostLines(post, left-2), f.Nav.PostScroll, left, remaining, postFocused, f.Theme)
		commentPane := Pane(comments(right-2), f.Nav.CommentScroll, right, remaining, !postFocused, f.Theme)
		return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, postPane, commentPane))
	}

	top := remaining / 2
	bottom := remaining - top
	postPane := Pane(PostLines(post, width-2), f.Nav.PostScroll, width, top, postFocused, f.Theme)
	commentPane := Pane(comments(width-2), f.Nav.CommentScroll, width, bottom, !postFocused, f.Theme)
	return lipgloss.JoinVertical(lipgloss.Left, title, postPane, commentPane)
}
