package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title       lipgloss.Style
	Subreddit   lipgloss.Style
	Preview     lipgloss.Style
	Author      lipgloss.Style
	ActiveLine  lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	PaneFocused lipgloss.Style
	PaneBlurred lipgloss.Style
	InputBox    lipgloss.Style

	TitleFresh   lipgloss.Style
	TitleVisited lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		Subreddit:   lipgloss.NewStyle().Foreground(cpTeal),
		Preview:     lipgloss.NewStyle().Foreground(cpSubtext0),
		Author:      lipgloss.NewStyle().Foreground(cpLavender),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		TabActive:   lipgloss.NewStyle().Bold(true).Foreground(cpText).Background(cpSurface2).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(cpOverlay1).Padding(0, 1),
		PaneFocused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpRed),
		PaneBlurred: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpSurface2),
		InputBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpLavender).Padding(0, 1),
		TitleFresh:  lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleVisited: lipgloss.NewStyle().
			Foreground(cpSubtext0),
	}
}

func (t Theme) StylePostTitle(visited bool, title string) string {
	if title == "" {
		return title
	}
	if visited {
		return t.TitleVisited.Render(title)
	}
	return t.TitleFresh.Render(title)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

// Pane returns the border style for a pane, highlighted when focused.
func (t Theme) Pane(focused bool) lipgloss.Style {
	if focused {
		return t.PaneFocused
	}
	return t.PaneBlurred
}
