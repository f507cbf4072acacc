package state

import (
	"unicode/utf8"

	"github.com/glabrego/reddit-cli/internal/reddit"
)

type Tab int

const (
	TabListing Tab = iota
	TabDetail
	TabSearch
	tabCount
)

var tabTitles = [...]string{"Home", "Post", "Search"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabTitles[t]
}

func Tabs() []Tab {
	return []Tab{TabListing, TabDetail, TabSearch}
}

type Focus int

const (
	FocusPost Focus = iota
	FocusComments
)

// Navigation is the whole per-session UI state. Query is the query the
// current working set was fetched with; Input is the uncommitted search
// buffer.
type Navigation struct {
	Tab           Tab
	Selected      int
	PostScroll    int
	CommentScroll int
	Focus         Focus
	Sort          reddit.SortMode
	CommentSort   reddit.SortMode
	Input         string
	Query         string
	Cursor        string
}

func NewNavigation(query string) Navigation {
	return Navigation{
		Tab:         TabListing,
		Sort:        reddit.SortHot,
		CommentSort: reddit.SortBest,
		Query:       query,
		Input:       query,
	}
}

func (n *Navigation) NextTab() {
	n.resetScroll()
	n.Tab = (n.Tab + 1) % tabCount
}

func (n *Navigation) PrevTab() {
	n.resetScroll()
	n.Tab = (n.Tab + tabCount - 1) % tabCount
}

func (n *Navigation) resetScroll() {
	n.PostScroll = 0
	n.CommentScroll = 0
}

// SelectPrev moves up one post, wrapping from the first to the last.
func (n *Navigation) SelectPrev(size int) {
	if size <= 0 {
		n.Selected = 0
		return
	}
	if n.Selected <= 0 || n.Selected >= size {
		n.Selected = size - 1
		return
	}
	n.Selected--
}

// SelectNext moves down one post. Stepping past the last post leaves the
// selection where it is and reports that the next page should be loaded.
func (n *Navigation) SelectNext(size int) (loadMore bool) {
	if n.Selected+1 >= size {
		n.Selected = ClampCursor(n.Selected, size)
		return true
	}
	n.Selected++
	return false
}

// CanLoadMore reports whether a cursor from a previous fetch is available.
func (n Navigation) CanLoadMore() bool {
	return n.Cursor != ""
}

func (n *Navigation) SetSort(mode reddit.SortMode) {
	n.Sort = mode
}

func (n *Navigation) SetCommentSort(mode reddit.SortMode) {
	n.CommentSort = mode
	n.CommentScroll = 0
}

// BeginFresh commits query for a first-page fetch. The cursor of the previous
// context is dropped so it cannot leak into the new one.
func (n *Navigation) BeginFresh(query string) {
	n.Query = query
	n.Cursor = ""
}

// ApplyPage records the cursor of a successful fetch. The working set has
// been replaced, so the selection and post scroll start over.
func (n *Navigation) ApplyPage(cursor string) {
	n.Cursor = cursor
	n.Selected = 0
	n.PostScroll = 0
	n.CommentScroll = 0
}

func (n *Navigation) ToggleFocus() {
	if n.Focus == FocusPost {
		n.Focus = FocusComments
		return
	}
	n.Focus = FocusPost
}

func (n *Navigation) ScrollUp(by int) {
	offset := n.focusedScroll()
	*offset -= by
	if *offset < 0 {
		*offset = 0
	}
}

func (n *Navigation) ScrollDown(by int) {
	offset := n.focusedScroll()
	*offset += by
	if *offset < 0 {
		*offset = 0
	}
}

func (n *Navigation) focusedScroll() *int {
	if n.Focus == FocusComments {
		return &n.CommentScroll
	}
	return &n.PostScroll
}

func (n *Navigation) AppendInput(s string) {
	n.Input += s
}

func (n *Navigation) Backspace() {
	if n.Input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(n.Input)
	n.Input = n.Input[:len(n.Input)-size]
}

// CycleSavedTab replaces the search buffer with the saved tab after the one
// it currently holds, starting from the first.
func (n *Navigation) CycleSavedTab(saved []string) bool {
	if len(saved) == 0 {
		return false
	}
	next := 0
	for i, tab := range saved {
		if tab == n.Input {
			next = (i + 1) % len(saved)
			break
		}
	}
	n.Input = saved[next]
	return true
}
