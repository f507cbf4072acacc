package view

import (
	"strings"

	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Frame is everything one screen is drawn from.
type Frame struct {
	Nav       state.Navigation
	Posts     []reddit.Post
	Comments  []reddit.Comment
	SavedTabs []string
	Width     int
	Height    int
	Loading   bool
	Spinner   string
	Status    string
	Warning   string
	Help      string
	Theme     tuitheme.Theme
}

// Render draws the tab bar, the layout of the active tab and the footer.
func Render(f Frame) string {
	width, height := f.Width, f.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	header := TabBar(f.Nav.Tab, CompactFooter(f.Nav, len(f.Posts), f.Theme), width, f.Theme)
	footer := []string{CompactMessage(f.Loading, f.Warning != "", f.Spinner, f.Status, f.Warning, f.Theme)}
	if f.Help != "" {
		footer = append(footer, f.Help)
	}
	bodyHeight := max(1, height-2-len(footer))

	var body string
	switch f.Nav.Tab {
	case state.TabDetail:
		body = DetailBody(f, width, bodyHeight)
	case state.TabSearch:
		body = SearchBody(f.Nav.Input, f.Nav.Query, f.SavedTabs, width, bodyHeight, f.Theme)
	default:
		body = listingBody(f, width, bodyHeight)
	}

	parts := make([]string, 0, 3+len(footer))
	parts = append(parts, header, "", body)
	parts = append(parts, footer...)
	return strings.Join(parts, "\n")
}

func listingBody(f Frame, width, height int) string {
	lines := ListingLines(f.Posts, f.Nav.Selected, width, height, f.Theme)
	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}
	if f.Loading {
		return "Loading posts…"
	}
	return "No text posts here. Press r to reload or 3 to search."
}
