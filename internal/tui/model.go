package tui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/tui/actions"
	"github.com/glabrego/reddit-cli/internal/tui/platform"
	"github.com/glabrego/reddit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
	"github.com/glabrego/reddit-cli/internal/tui/view"
)

type clearStatusMsg struct {
	id int
}

// Options seeds a Model. Query and Sort pick the listing fetched at startup;
// an empty query is the front page.
type Options struct {
	Query     string
	Sort      reddit.SortMode
	SavedTabs []string
	BaseURL   string
}

type Model struct {
	service         actions.Service
	nav             state.Navigation
	posts           []reddit.Post
	comments        []reddit.Comment
	savedTabs       []string
	baseURL         string
	initial         reddit.ListingRequest
	listingSeq      int
	commentSeq      int
	loadingListing  bool
	loadingComments bool
	width           int
	height          int
	status          string
	statusID        int
	statusTTL       time.Duration
	err             error
	keys            keyMap
	help            help.Model
	spinner         spinner.Model
	theme           tuitheme.Theme
	openURLFn       func(string) error
	copyURLFn       func(string) error
}

func NewModel(service actions.Service, opts Options) Model {
	th := tuitheme.Default()
	m := Model{
		service:   service,
		nav:       state.NewNavigation(opts.Query),
		savedTabs: append([]string(nil), opts.SavedTabs...),
		baseURL:   opts.BaseURL,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.StateLoad)),
		theme:     th,
		statusTTL: 3 * time.Second,
		openURLFn: platform.OpenURLInBrowser,
		copyURLFn: platform.CopyToClipboard,
	}
	if m.baseURL == "" {
		m.baseURL = reddit.DefaultBaseURL
	}
	m.nav.SetSort(opts.Sort)
	if service != nil {
		m.initial = reddit.ListingRequest{Query: opts.Query, Sort: m.nav.Sort}
		m.listingSeq = 1
		m.loadingListing = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tea.Batch(actions.ListingCmd(m.service, m.listingSeq, m.initial), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.ListingSuccessMsg:
		if msg.Seq != m.listingSeq {
			return m, nil
		}
		m.loadingListing = false
		if !msg.Request.Paginate {
			m.nav.BeginFresh(msg.Request.Query)
		}
		m.nav.SetSort(msg.Request.Sort)
		m.posts = msg.Listing.Posts
		m.comments = nil
		m.nav.ApplyPage(msg.Listing.Cursor)
		status := fmt.Sprintf("Loaded %d posts from %s in %s", len(m.posts), view.QueryLabel(m.nav.Query), msg.Duration.Round(time.Millisecond))
		if m.nav.Tab == state.TabDetail {
			cmd := tea.Batch(m.setStatus(status), m.openSelected())
			return m, cmd
		}
		cmd := m.setStatus(status)
		return m, cmd
	case actions.ListingErrorMsg:
		if msg.Seq != m.listingSeq {
			return m, nil
		}
		m.loadingListing = false
		m.err = msg.Err
		log.Printf("listing query=%q failed: %v", msg.Request.Query, msg.Err)
		return m, nil
	case actions.CommentsSuccessMsg:
		if msg.Seq != m.commentSeq {
			return m, nil
		}
		m.loadingComments = false
		m.comments = msg.Comments
		return m, nil
	case actions.CommentsErrorMsg:
		if msg.Seq != m.commentSeq {
			return m, nil
		}
		m.loadingComments = false
		m.comments = nil
		m.err = msg.Err
		log.Printf("comments post=%s failed: %v", msg.PostID, msg.Err)
		return m, nil
	case actions.VisitErrorMsg:
		log.Printf("record visit: %v", msg.Err)
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		cmd := m.setStatus(msg.Status)
		return m, cmd
	case actions.OpenURLErrorMsg:
		m.err = msg.Err
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return view.Render(view.Frame{
		Nav:       m.nav,
		Posts:     m.posts,
		Comments:  m.comments,
		SavedTabs: m.savedTabs,
		Width:     m.width,
		Height:    m.height,
		Loading:   m.loading(),
		Spinner:   m.spinner.View(),
		Status:    m.status,
		Warning:   warning,
		Help:      m.help.View(m.keys.forTab(m.nav.Tab)),
		Theme:     m.theme,
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.loading() {
		return m, nil
	}
	switch m.nav.Tab {
	case state.TabDetail:
		return m.handleDetailKey(msg)
	case state.TabSearch:
		return m.handleSearchKey(msg)
	default:
		return m.handleListingKey(msg)
	}
}

func (m Model) handleListingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevTab):
		cmd := m.switchTab(m.nav.PrevTab)
		return m, cmd
	case key.Matches(msg, m.keys.NextTab):
		cmd := m.switchTab(m.nav.NextTab)
		return m, cmd
	case key.Matches(msg, m.keys.OpenPost):
		if len(m.posts) == 0 {
			return m, nil
		}
		m.nav.NextTab()
		cmd := m.openSelected()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.nav.SelectPrev(len(m.posts))
	case key.Matches(msg, m.keys.Down):
		if m.nav.SelectNext(len(m.posts)) {
			cmd := m.loadMore()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Hot):
		cmd := m.fetchListing(reddit.ListingRequest{Query: m.nav.Query, Sort: reddit.SortHot})
		return m, cmd
	case key.Matches(msg, m.keys.Best):
		cmd := m.fetchListing(reddit.ListingRequest{Query: m.nav.Query, Sort: reddit.SortBest})
		return m, cmd
	case key.Matches(msg, m.keys.Controversial):
		cmd := m.fetchListing(reddit.ListingRequest{Query: m.nav.Query, Sort: reddit.SortControversial})
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		cmd := m.fetchListing(reddit.ListingRequest{Query: m.nav.Query, Sort: m.nav.Sort})
		return m, cmd
	case key.Matches(msg, m.keys.Browser):
		return m.openCurrentURL()
	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrentURL()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.nav.ToggleFocus()
	case key.Matches(msg, m.keys.PrevTab):
		cmd := m.switchTab(m.nav.PrevTab)
		return m, cmd
	case key.Matches(msg, m.keys.DetailNextTab):
		cmd := m.switchTab(m.nav.NextTab)
		return m, cmd
	case key.Matches(msg, m.keys.ScrollUp):
		m.nav.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.nav.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.nav.ScrollUp(state.PageStep(m.height, m.status != "" || m.err != nil))
	case key.Matches(msg, m.keys.PageDown):
		m.nav.ScrollDown(state.PageStep(m.height, m.status != "" || m.err != nil))
	case key.Matches(msg, m.keys.Hot):
		m.nav.SetCommentSort(reddit.SortHot)
		cmd := m.fetchComments()
		return m, cmd
	case key.Matches(msg, m.keys.Best):
		m.nav.SetCommentSort(reddit.SortBest)
		cmd := m.fetchComments()
		return m, cmd
	case key.Matches(msg, m.keys.Controversial):
		m.nav.SetCommentSort(reddit.SortControversial)
		cmd := m.fetchComments()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if len(m.posts) == 0 {
			return m, nil
		}
		m.nav.SelectPrev(len(m.posts))
		cmd := m.openSelected()
		return m, cmd
	case key.Matches(msg, m.keys.Down):
		if len(m.posts) == 0 {
			return m, nil
		}
		if m.nav.SelectNext(len(m.posts)) {
			cmd := m.loadMore()
			return m, cmd
		}
		cmd := m.openSelected()
		return m, cmd
	case key.Matches(msg, m.keys.Browser):
		return m.openCurrentURL()
	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrentURL()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		cmd := m.fetchListing(reddit.ListingRequest{Query: m.nav.Input, Sort: m.nav.Sort})
		return m, cmd
	case key.Matches(msg, m.keys.Backspace):
		m.nav.Backspace()
	case key.Matches(msg, m.keys.CycleSaved):
		if !m.nav.CycleSavedTab(m.savedTabs) {
			cmd := m.setStatus("No saved tabs, add some with: reddit config --tab r/<name>")
			return m, cmd
		}
	case key.Matches(msg, m.keys.SearchPrevTab):
		cmd := m.switchTab(m.nav.PrevTab)
		return m, cmd
	case key.Matches(msg, m.keys.SearchNextTab):
		cmd := m.switchTab(m.nav.NextTab)
		return m, cmd
	case msg.Type == tea.KeyRunes:
		m.nav.AppendInput(string(msg.Runes))
	case msg.Type == tea.KeySpace:
		m.nav.AppendInput(" ")
	}
	return m, nil
}

func (m Model) loading() bool {
	return m.loadingListing || m.loadingComments
}

func (m *Model) fetchListing(req reddit.ListingRequest) tea.Cmd {
	if m.service == nil {
		return nil
	}
	m.listingSeq++
	m.loadingListing = true
	m.err = nil
	m.status = ""
	return tea.Batch(actions.ListingCmd(m.service, m.listingSeq, req), m.spinner.Tick)
}

func (m *Model) loadMore() tea.Cmd {
	if !m.nav.CanLoadMore() {
		return m.setStatus("No more posts")
	}
	return m.fetchListing(reddit.ListingRequest{
		Query:    m.nav.Query,
		Sort:     m.nav.Sort,
		Paginate: true,
		Cursor:   m.nav.Cursor,
	})
}

func (m *Model) fetchComments() tea.Cmd {
	post, ok := m.currentPost()
	if !ok || m.service == nil {
		m.comments = nil
		return nil
	}
	m.commentSeq++
	m.loadingComments = true
	m.comments = nil
	m.nav.CommentScroll = 0
	m.err = nil
	return tea.Batch(actions.CommentsCmd(m.service, m.commentSeq, post.ID, m.nav.CommentSort), m.spinner.Tick)
}

// switchTab applies move and reopens the selected post when it lands on the
// detail tab, so the comments always belong to the post on screen.
func (m *Model) switchTab(move func()) tea.Cmd {
	move()
	if m.nav.Tab != state.TabDetail {
		return nil
	}
	return m.openSelected()
}

// openSelected shows the selected post in the detail layout and records the
// visit.
func (m *Model) openSelected() tea.Cmd {
	i := state.ClampCursor(m.nav.Selected, len(m.posts))
	if len(m.posts) == 0 {
		return nil
	}
	m.nav.Selected = i
	m.nav.PostScroll = 0
	m.posts[i].Visited = true
	cmd := m.fetchComments()
	if m.service == nil {
		return cmd
	}
	return tea.Batch(cmd, actions.RecordVisitCmd(m.service, m.posts[i]))
}

func (m Model) currentPost() (reddit.Post, bool) {
	if len(m.posts) == 0 {
		return reddit.Post{}, false
	}
	return m.posts[state.ClampCursor(m.nav.Selected, len(m.posts))], true
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	post, ok := m.currentPost()
	if !ok {
		return m, nil
	}
	u, err := platform.PostURL(m.baseURL, post)
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, actions.OpenURLCmd(u, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	post, ok := m.currentPost()
	if !ok {
		return m, nil
	}
	u, err := platform.PostURL(m.baseURL, post)
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, actions.CopyURLCmd(u, m.copyURLFn)
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.statusID++
	m.status = status
	return clearStatusCmd(m.statusID, m.statusTTL)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}
