package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
)

// TabBar renders the three tabs on the left and right-aligns info in the
// remaining width.
func TabBar(active state.Tab, info string, width int, th tuitheme.Theme) string {
	tabs := make([]string, 0, len(state.Tabs()))
	for i, tab := range state.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == active {
			tabs = append(tabs, th.TabActive.Render(label))
			continue
		}
		tabs = append(tabs, th.TabInactive.Render(label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if info == "" {
		return left
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(info)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + info
}

func QueryLabel(query string) string {
	if q := reddit.NormalizeQuery(query); q != "" {
		return q
	}
	return "front page"
}

func CompactFooter(nav state.Navigation, shown int, th tuitheme.Theme) string {
	more := "no"
	if nav.CanLoadMore() {
		more = "yes"
	}
	parts := []string{
		th.MetaLabel.Render("feed") + " " + th.MetaValue.Render(QueryLabel(nav.Query)),
		th.MetaLabel.Render("sort") + " " + th.MetaValue.Render(nav.Sort.String()),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.MetaLabel.Render("more") + " " + th.MetaValue.Render(more),
	}
	if nav.Tab == state.TabDetail {
		parts = append(parts, th.MetaLabel.Render("comments")+" "+th.MetaValue.Render(nav.CommentSort.String()))
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, spinner, status, warning string, th tuitheme.Theme) string {
	mode := "idle"
	if loading {
		mode = "loading"
	}
	if hasWarning {
		mode = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch mode {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
		if spinner != "" {
			stateLabel = spinner + " " + stateLabel
		}
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, mode, th.MetaValue.Render(main))
}
