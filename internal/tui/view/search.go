package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
)

func SearchBody(input, current string, saved []string, width, height int, th tuitheme.Theme) string {
	boxWidth := min(max(20, width/2), max(1, width-2))
	box := th.InputBox.Width(boxWidth).Render("Search: " + input + "█")

	hints := []string{
		th.MetaLabel.Render("showing") + " " + th.MetaValue.Render(QueryLabel(current)),
		th.MetaLabel.Render("enter a path like r/golang, empty for the front page"),
	}
	if len(saved) > 0 {
		hints = append(hints, th.MetaLabel.Render("saved (tab to cycle)")+" "+th.MetaValue.Render(strings.Join(saved, ", ")))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, box, "", strings.Join(hints, "\n"))
	return lipgloss.Place(width, max(1, height), lipgloss.Center, lipgloss.Center, content)
}
