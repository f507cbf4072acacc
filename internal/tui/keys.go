package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/glabrego/reddit-cli/internal/tui/state"
)

type keyMap struct {
	Quit          key.Binding
	PrevTab       key.Binding
	NextTab       key.Binding
	DetailNextTab key.Binding
	OpenPost      key.Binding
	Up            key.Binding
	Down          key.Binding
	Hot           key.Binding
	Best          key.Binding
	Controversial key.Binding
	Browser       key.Binding
	Copy          key.Binding
	Reload        key.Binding
	Focus         key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Submit        key.Binding
	Backspace     key.Binding
	CycleSaved    key.Binding
	SearchPrevTab key.Binding
	SearchNextTab key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		PrevTab:       key.NewBinding(key.WithKeys("1", "left"), key.WithHelp("1/←", "prev tab")),
		NextTab:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "next tab")),
		DetailNextTab: key.NewBinding(key.WithKeys("2", "right"), key.WithHelp("2/→", "next tab")),
		OpenPost:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "open")),
		Up:            key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:          key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Hot:           key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hot")),
		Best:          key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "best")),
		Controversial: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "controversial")),
		Browser:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "browser")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Focus:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		ScrollUp:      key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "scroll up")),
		ScrollDown:    key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "scroll down")),
		PageUp:        key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Backspace:     key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		CycleSaved:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "saved tabs")),
		SearchPrevTab: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev tab")),
		SearchNextTab: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next tab")),
	}
}

// tabKeys is the help.KeyMap for one tab.
type tabKeys []key.Binding

func (k tabKeys) ShortHelp() []key.Binding {
	return k
}

func (k tabKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k}
}

func (k keyMap) forTab(tab state.Tab) tabKeys {
	switch tab {
	case state.TabDetail:
		return tabKeys{k.ScrollUp, k.ScrollDown, k.Focus, k.Up, k.Down, k.Hot, k.Best, k.Controversial, k.PrevTab, k.DetailNextTab, k.Browser, k.Copy, k.Quit}
	case state.TabSearch:
		return tabKeys{k.Submit, k.Backspace, k.CycleSaved, k.SearchPrevTab, k.SearchNextTab, k.Quit}
	default:
		return tabKeys{k.Up, k.Down, k.OpenPost, k.Hot, k.Best, k.Controversial, k.Reload, k.Browser, k.Copy, k.PrevTab, k.NextTab, k.Quit}
	}
}
