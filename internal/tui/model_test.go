package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kr/pretty"

	"github.com/glabrego/reddit-cli/internal/app"
	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/tui/actions"
	"github.com/glabrego/reddit-cli/internal/tui/state"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plainView(m Model) string {
	return ansiStrip.ReplaceAllString(m.View(), "")
}

type commentRequest struct {
	PostID string
	Sort   reddit.SortMode
}

type fakeService struct {
	listings   []app.Listing
	listingErr error
	comments   []reddit.Comment
	requests   []reddit.ListingRequest
	commentReq []commentRequest
	visits     []string
}

func (f *fakeService) Listing(_ context.Context, req reddit.ListingRequest) (app.Listing, error) {
	f.requests = append(f.requests, req)
	if f.listingErr != nil {
		return app.Listing{}, f.listingErr
	}
	if len(f.listings) == 0 {
		return app.Listing{}, nil
	}
	i := min(len(f.requests)-1, len(f.listings)-1)
	return f.listings[i], nil
}

func (f *fakeService) Comments(_ context.Context, postID string, sort reddit.SortMode) ([]reddit.Comment, error) {
	f.commentReq = append(f.commentReq, commentRequest{PostID: postID, Sort: sort})
	return f.comments, nil
}

func (f *fakeService) RecordVisit(_ context.Context, post reddit.Post) error {
	f.visits = append(f.visits, post.ID)
	return nil
}

func page(prefix string, n int) app.Listing {
	posts := make([]reddit.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, reddit.Post{
			ID:        fmt.Sprintf("t3_%s%d", prefix, i),
			Title:     fmt.Sprintf("%s post %d", prefix, i),
			Subreddit: "r/golang",
			SelfText:  "text",
			Permalink: fmt.Sprintf("/r/golang/comments/%s%d/", prefix, i),
		})
	}
	return app.Listing{Posts: posts, Cursor: fmt.Sprintf("t3_%s%d", prefix, n-1)}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drain runs cmd and feeds every resulting message back into the model
// until no work is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case spinner.TickMsg, clearStatusMsg:
			continue
		}
		next, follow := m.Update(msg)
		m = drain(t, next.(Model), follow)
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func started(t *testing.T, svc *fakeService, opts Options) Model {
	t.Helper()
	m := NewModel(svc, opts)
	m.statusTTL = 0
	m.openURLFn = func(string) error { return nil }
	m.copyURLFn = func(string) error { return nil }
	return drain(t, m, m.Init())
}

func TestInit_FetchesFrontPageSortedHot(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 3)}}
	m := NewModel(svc, Options{})
	if !m.loading() {
		t.Fatal("expected model to start loading")
	}
	m.statusTTL = 0
	m = drain(t, m, m.Init())

	want := []reddit.ListingRequest{{Query: "", Sort: reddit.SortHot}}
	if diff := pretty.Diff(want, svc.requests); len(diff) > 0 {
		t.Fatalf("unexpected requests:\n%s", strings.Join(diff, "\n"))
	}
	if m.nav.Tab != state.TabListing || m.nav.Selected != 0 {
		t.Fatalf("expected listing tab at index 0, got tab=%v selected=%d", m.nav.Tab, m.nav.Selected)
	}
	if m.loading() || len(m.posts) != 3 || m.nav.Cursor != "t3_a2" {
		t.Fatalf("unexpected state after init: loading=%t posts=%d cursor=%q", m.loading(), len(m.posts), m.nav.Cursor)
	}
}

func TestInit_UsesStartupQuery(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 1)}}
	m := started(t, svc, Options{Query: "r/golang"})
	if got := svc.requests[0].Query; got != "r/golang" {
		t.Fatalf("expected startup query r/golang, got %q", got)
	}
	if m.nav.Query != "r/golang" {
		t.Fatalf("expected committed query r/golang, got %q", m.nav.Query)
	}
}

func TestInit_UsesStartupSort(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 1)}}
	m := started(t, svc, Options{Query: "r/golang", Sort: reddit.SortBest})
	want := []reddit.ListingRequest{{Query: "r/golang", Sort: reddit.SortBest}}
	if diff := pretty.Diff(want, svc.requests); len(diff) > 0 {
		t.Fatalf("unexpected requests:\n%s", strings.Join(diff, "\n"))
	}
	if m.nav.Sort != reddit.SortBest {
		t.Fatalf("expected committed sort best, got %v", m.nav.Sort)
	}
}

func TestLoadMore_DownPastEndIssuesOnePaginatedFetch(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 3), page("b", 2)}}
	m := started(t, svc, Options{})

	var cmd tea.Cmd
	for i := 0; i < 2; i++ {
		m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
		if cmd != nil {
			t.Fatalf("expected plain move on press %d", i)
		}
	}
	if m.nav.Selected != 2 {
		t.Fatalf("expected selection on last post, got %d", m.nav.Selected)
	}

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if cmd == nil {
		t.Fatal("expected load-more command")
	}
	if m.nav.Selected != 2 {
		t.Fatalf("expected selection to stay valid while loading, got %d", m.nav.Selected)
	}
	if _, extra := press(t, m, tea.KeyMsg{Type: tea.KeyDown}); extra != nil {
		t.Fatal("expected keys to be ignored while loading")
	}
	m = drain(t, m, cmd)

	if len(svc.requests) != 2 {
		t.Fatalf("expected exactly one paginated fetch, got requests %#v", svc.requests)
	}
	want := reddit.ListingRequest{Query: "", Sort: reddit.SortHot, Paginate: true, Cursor: "t3_a2"}
	if diff := pretty.Diff(want, svc.requests[1]); len(diff) > 0 {
		t.Fatalf("unexpected paginated request:\n%s", strings.Join(diff, "\n"))
	}
	if m.nav.Selected != 0 || len(m.posts) != 2 || m.posts[0].ID != "t3_b0" {
		t.Fatalf("expected replaced working set at index 0, got selected=%d posts=%#v", m.nav.Selected, m.posts)
	}
	if m.nav.Cursor != "t3_b1" {
		t.Fatalf("expected cursor from latest page, got %q", m.nav.Cursor)
	}
}

func TestLoadMore_WithoutCursorDoesNotFetch(t *testing.T) {
	last := page("a", 1)
	last.Cursor = ""
	svc := &fakeService{listings: []app.Listing{last}}
	m := started(t, svc, Options{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = drain(t, m, cmd)
	if len(svc.requests) != 1 {
		t.Fatalf("expected no paginated fetch, got %#v", svc.requests)
	}
	if m.status != "No more posts" {
		t.Fatalf("expected end-of-listing status, got %q", m.status)
	}
}

func TestQuit_EscReturnsQuit(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 1)}}
	m := NewModel(svc, Options{})

	// Quit works even while the first fetch is still in flight.
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected ctrl+c to quit, got %T", cmd())
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2)}}
	m := NewModel(svc, Options{})

	m, cmd := press(t, m, runes("2"))
	if cmd != nil || m.nav.Tab != state.TabListing {
		t.Fatalf("expected tab key ignored while loading, got tab=%v", m.nav.Tab)
	}
}

func TestSortKey_RefetchesAndResetsSelection(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 3), page("c", 3)}}
	m := started(t, svc, Options{Query: "r/golang"})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := press(t, m, runes("c"))
	m = drain(t, m, cmd)

	want := reddit.ListingRequest{Query: "r/golang", Sort: reddit.SortControversial}
	if diff := pretty.Diff(want, svc.requests[1]); len(diff) > 0 {
		t.Fatalf("unexpected sort request:\n%s", strings.Join(diff, "\n"))
	}
	if m.nav.Sort != reddit.SortControversial || m.nav.Selected != 0 {
		t.Fatalf("expected controversial sort at index 0, got sort=%v selected=%d", m.nav.Sort, m.nav.Selected)
	}
}

func TestListingError_ShowsWarningAndKeepsPosts(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2)}}
	m := started(t, svc, Options{})

	svc.listingErr = errors.New("listing failed with status 429: slow down")
	m, cmd := press(t, m, runes("r"))
	m = drain(t, m, cmd)

	if m.loading() {
		t.Fatal("expected loading to finish after error")
	}
	if m.err == nil || len(m.posts) != 2 {
		t.Fatalf("expected warning with previous posts kept, err=%v posts=%d", m.err, len(m.posts))
	}
	if !strings.Contains(plainView(m), "slow down") {
		t.Fatalf("expected warning in view, got:\n%s", plainView(m))
	}
}

func TestStaleListingResponseIsDropped(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2)}}
	m := started(t, svc, Options{})

	next, _ := m.Update(actions.ListingSuccessMsg{Seq: m.listingSeq - 1, Listing: page("z", 5)})
	m = next.(Model)
	if len(m.posts) != 2 || m.posts[0].ID != "t3_a0" {
		t.Fatalf("expected stale response to be ignored, got %#v", m.posts)
	}
}

func TestOpenPost_FetchesCommentsAndRecordsVisit(t *testing.T) {
	svc := &fakeService{
		listings: []app.Listing{page("a", 3)},
		comments: []reddit.Comment{{Author: "alice", Body: "hello"}},
	}
	m := started(t, svc, Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.nav.Tab != state.TabDetail {
		t.Fatalf("expected detail tab, got %v", m.nav.Tab)
	}
	m = drain(t, m, cmd)

	wantReq := []commentRequest{{PostID: "t3_a1", Sort: reddit.SortBest}}
	if diff := pretty.Diff(wantReq, svc.commentReq); len(diff) > 0 {
		t.Fatalf("unexpected comment requests:\n%s", strings.Join(diff, "\n"))
	}
	if diff := pretty.Diff([]string{"t3_a1"}, svc.visits); len(diff) > 0 {
		t.Fatalf("unexpected visits:\n%s", strings.Join(diff, "\n"))
	}
	if !m.posts[1].Visited {
		t.Fatal("expected opened post to be marked visited")
	}
	if len(m.comments) != 1 || !strings.Contains(plainView(m), "u/alice | hello") {
		t.Fatalf("expected comment in detail view, got:\n%s", plainView(m))
	}
}

func TestDetail_ScrollFocusAndTabReset(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2)}}
	m := started(t, svc, Options{})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("k"))
	if m.nav.PostScroll != 1 {
		t.Fatalf("expected post scroll 1, got %d", m.nav.PostScroll)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("j"))
	if m.nav.Focus != state.FocusComments || m.nav.CommentScroll != 1 || m.nav.PostScroll != 1 {
		t.Fatalf("expected comment pane to scroll, got %#v", m.nav)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.nav.Tab != state.TabSearch || m.nav.PostScroll != 0 || m.nav.CommentScroll != 0 {
		t.Fatalf("expected search tab with scroll reset, got %#v", m.nav)
	}
}

func TestDetail_CommentSortRefetches(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2)}}
	m := started(t, svc, Options{})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)

	m, cmd = press(t, m, runes("c"))
	m = drain(t, m, cmd)
	if len(svc.requests) != 1 {
		t.Fatalf("expected comment sort to leave the listing alone, got %#v", svc.requests)
	}
	last := svc.commentReq[len(svc.commentReq)-1]
	if last.Sort != reddit.SortControversial || m.nav.CommentSort != reddit.SortControversial {
		t.Fatalf("expected controversial comments, got %#v", last)
	}
}

func TestDetail_UpDownReselectsPost(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 3)}}
	m := started(t, svc, Options{})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = drain(t, m, cmd)
	if m.nav.Selected != 2 {
		t.Fatalf("expected wrap to last post, got %d", m.nav.Selected)
	}
	if got := svc.commentReq[len(svc.commentReq)-1].PostID; got != "t3_a2" {
		t.Fatalf("expected comments for t3_a2, got %q", got)
	}
}

func TestDetail_TabSwitchRefreshesCommentsForSelection(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 3)}}
	m := started(t, svc, Options{})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)

	m, cmd = press(t, m, runes("1"))
	if cmd != nil || m.nav.Tab != state.TabListing {
		t.Fatalf("expected plain switch to the listing tab, got tab=%v", m.nav.Tab)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd = press(t, m, runes("2"))
	if cmd == nil {
		t.Fatal("expected detail tab to refetch comments")
	}
	m = drain(t, m, cmd)

	want := []commentRequest{
		{PostID: "t3_a0", Sort: reddit.SortBest},
		{PostID: "t3_a1", Sort: reddit.SortBest},
	}
	if diff := pretty.Diff(want, svc.commentReq); len(diff) > 0 {
		t.Fatalf("unexpected comment requests:\n%s", strings.Join(diff, "\n"))
	}
	if !m.posts[1].Visited || svc.visits[len(svc.visits)-1] != "t3_a1" {
		t.Fatalf("expected t3_a1 to be opened, visits=%v", svc.visits)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = drain(t, m, cmd)
	if m.nav.Tab != state.TabDetail || svc.commentReq[len(svc.commentReq)-1].PostID != "t3_a1" {
		t.Fatalf("expected search to return to detail with comments refreshed, got tab=%v", m.nav.Tab)
	}
}

func TestDetail_LoadMoreOpensFirstPostOfNewPage(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 1), page("b", 2)}}
	m := started(t, svc, Options{})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if cmd == nil {
		t.Fatal("expected load-more command from detail tab")
	}
	m = drain(t, m, cmd)

	if m.nav.Tab != state.TabDetail || m.posts[0].ID != "t3_b0" {
		t.Fatalf("expected detail of t3_b0, got tab=%v posts=%#v", m.nav.Tab, m.posts)
	}
	if !m.posts[0].Visited {
		t.Fatal("expected first post of the new page to be marked visited")
	}
	if diff := pretty.Diff([]string{"t3_a0", "t3_b0"}, svc.visits); len(diff) > 0 {
		t.Fatalf("unexpected visits:\n%s", strings.Join(diff, "\n"))
	}
	if got := svc.commentReq[len(svc.commentReq)-1].PostID; got != "t3_b0" {
		t.Fatalf("expected comments for t3_b0, got %q", got)
	}
}

func TestSearch_TypeSubmitAndCycleSavedTabs(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2), page("g", 4)}}
	m := started(t, svc, Options{SavedTabs: []string{"r/rust", "r/golang"}})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.nav.Tab != state.TabSearch {
		t.Fatalf("expected search tab, got %v", m.nav.Tab)
	}

	m, _ = press(t, m, runes("r/gx"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = press(t, m, runes("o"))
	if m.nav.Input != "r/go" {
		t.Fatalf("expected buffer r/go, got %q", m.nav.Input)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.nav.Input != "r/rust" {
		t.Fatalf("expected first saved tab, got %q", m.nav.Input)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.nav.Input != "r/golang" {
		t.Fatalf("expected second saved tab, got %q", m.nav.Input)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)
	want := reddit.ListingRequest{Query: "r/golang", Sort: reddit.SortHot}
	if diff := pretty.Diff(want, svc.requests[1]); len(diff) > 0 {
		t.Fatalf("unexpected search request:\n%s", strings.Join(diff, "\n"))
	}
	if m.nav.Query != "r/golang" || len(m.posts) != 4 || m.nav.Cursor != "t3_g3" {
		t.Fatalf("expected new working set for r/golang, got query=%q posts=%d cursor=%q", m.nav.Query, len(m.posts), m.nav.Cursor)
	}
}

func TestSearch_HotkeysAreTypedNotHandled(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 1)}}
	m := started(t, svc, Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	m, cmd := press(t, m, runes("hbc12"))
	if cmd != nil || m.nav.Input != "hbc12" || m.nav.Tab != state.TabSearch {
		t.Fatalf("expected keys appended to the buffer, got input=%q tab=%v", m.nav.Input, m.nav.Tab)
	}
}

func TestOpenAndCopyURL(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 1)}}
	m := started(t, svc, Options{BaseURL: "https://old.reddit.com"})

	var opened, copied string
	m.openURLFn = func(u string) error { opened = u; return nil }
	m.copyURLFn = func(u string) error { copied = u; return nil }

	m, cmd := press(t, m, runes("o"))
	m = drain(t, m, cmd)
	if opened != "https://old.reddit.com/r/golang/comments/a0/" {
		t.Fatalf("unexpected opened URL %q", opened)
	}

	m, cmd = press(t, m, runes("y"))
	m = drain(t, m, cmd)
	if copied != opened || m.status != "URL copied to clipboard" {
		t.Fatalf("unexpected copy result: copied=%q status=%q", copied, m.status)
	}
}

func TestView_RendersActiveTabOnly(t *testing.T) {
	svc := &fakeService{listings: []app.Listing{page("a", 2)}}
	m := started(t, svc, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	got := plainView(m)
	if !strings.Contains(got, "a post 0") || strings.Contains(got, "Search: ") {
		t.Fatalf("expected listing layout, got:\n%s", got)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	got = plainView(m)
	if !strings.Contains(got, "Search: ") || strings.Contains(got, "a post 0") {
		t.Fatalf("expected search layout, got:\n%s", got)
	}
}
