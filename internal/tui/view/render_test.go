package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reddit-cli/internal/tui/theme"
)

func samplePosts(n int) []reddit.Post {
	posts := make([]reddit.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, reddit.Post{
			ID:        fmt.Sprintf("t3_%d", i),
			Title:     fmt.Sprintf("Post number %d", i),
			Subreddit: "r/golang",
			SelfText:  fmt.Sprintf("body of post %d", i),
			Author:    "gopher",
		})
	}
	return posts
}

func frame(tab state.Tab, posts []reddit.Post) Frame {
	nav := state.NewNavigation("")
	nav.Tab = tab
	return Frame{
		Nav:    nav,
		Posts:  posts,
		Width:  80,
		Height: 24,
		Theme:  tuitheme.Default(),
	}
}

func TestRender_ListingMarksSelection(t *testing.T) {
	f := frame(state.TabListing, samplePosts(3))
	f.Nav.Selected = 1
	f.Posts[2].Visited = true
	got := stripANSI(Render(f))

	if !strings.Contains(got, ">>   r/golang Post number 1") {
		t.Fatalf("expected selected post marker, got:\n%s", got)
	}
	if !strings.Contains(got, "  •  r/golang Post number 2") {
		t.Fatalf("expected visited marker, got:\n%s", got)
	}
	if !strings.Contains(got, "body of post 0") {
		t.Fatalf("expected self-text preview, got:\n%s", got)
	}
	if strings.Contains(got, "Search:") {
		t.Fatalf("expected listing layout only, got:\n%s", got)
	}
}

func TestRender_ListingKeepsSelectionInWindow(t *testing.T) {
	f := frame(state.TabListing, samplePosts(50))
	f.Nav.Selected = 40
	got := stripANSI(Render(f))
	if !strings.Contains(got, ">>   r/golang Post number 40") {
		t.Fatalf("expected selected post to be visible, got:\n%s", got)
	}
	if strings.Contains(got, "Post number 0\n") {
		t.Fatalf("expected first post scrolled out, got:\n%s", got)
	}
	if lines := strings.Count(got, "\n") + 1; lines > 24 {
		t.Fatalf("expected at most 24 lines, got %d", lines)
	}
}

func TestRender_ListingEmptyStates(t *testing.T) {
	f := frame(state.TabListing, nil)
	f.Loading = true
	if got := stripANSI(Render(f)); !strings.Contains(got, "Loading posts") {
		t.Fatalf("expected loading placeholder, got:\n%s", got)
	}
	f.Loading = false
	if got := stripANSI(Render(f)); !strings.Contains(got, "No text posts here") {
		t.Fatalf("expected empty placeholder, got:\n%s", got)
	}
}

func TestPreviewText_FallsBackForEmptyBody(t *testing.T) {
	if got := PreviewText(reddit.Post{SelfText: " \n "}); got != "Not a text post" {
		t.Fatalf("unexpected fallback: %q", got)
	}
	if got := PreviewText(reddit.Post{SelfText: "a &amp;\n b"}); got != "a & b" {
		t.Fatalf("unexpected preview: %q", got)
	}
}

func TestRender_DetailShowsPostAndComments(t *testing.T) {
	f := frame(state.TabDetail, samplePosts(2))
	f.Nav.Selected = 1
	f.Comments = []reddit.Comment{
		{Author: "alice", Body: "first comment"},
		{Author: "bob", Body: "second comment"},
	}
	got := stripANSI(Render(f))
	for _, want := range []string{"Post number 1", "r/golang • u/gopher", "body of post 1", "u/alice | first comment", "u/bob | second comment"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in detail view, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, ">>") {
		t.Fatalf("expected detail layout only, got:\n%s", got)
	}
}

func TestRender_DetailScrollsFocusedPane(t *testing.T) {
	f := frame(state.TabDetail, samplePosts(1))
	f.Height = 40
	for i := 0; i < 30; i++ {
		f.Comments = append(f.Comments, reddit.Comment{Author: "u", Body: fmt.Sprintf("comment-%02d", i)})
	}
	if got := stripANSI(Render(f)); !strings.Contains(got, "comment-00") {
		t.Fatalf("expected first comment at offset zero, got:\n%s", got)
	}

	f.Nav.Focus = state.FocusComments
	f.Nav.CommentScroll = 1000
	got := stripANSI(Render(f))
	if strings.Contains(got, "comment-00") {
		t.Fatalf("expected first comment scrolled away, got:\n%s", got)
	}
	if !strings.Contains(got, "comment-29") {
		t.Fatalf("expected offset clamped to the last comment, got:\n%s", got)
	}
}

func TestRender_DetailPlaceholders(t *testing.T) {
	f := frame(state.TabDetail, nil)
	if got := stripANSI(Render(f)); !strings.Contains(got, "No post selected") {
		t.Fatalf("expected empty detail placeholder, got:\n%s", got)
	}

	f = frame(state.TabDetail, samplePosts(1))
	f.Posts[0].SelfText = ""
	f.Loading = true
	got := stripANSI(Render(f))
	if !strings.Contains(got, "Not a text post") || !strings.Contains(got, "Loading comments") {
		t.Fatalf("expected post and comment placeholders, got:\n%s", got)
	}
}

func TestRender_SearchShowsBufferAndSavedTabs(t *testing.T) {
	f := frame(state.TabSearch, samplePosts(1))
	f.Nav.Input = "r/rust"
	f.Nav.Query = "r/golang"
	f.SavedTabs = []string{"r/golang", "r/rust"}
	f.Help = "esc quit"
	got := stripANSI(Render(f))
	for _, want := range []string{"Search: r/rust", "showing r/golang", "r/golang, r/rust", "esc quit"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in search view, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Post number 0") {
		t.Fatalf("expected search layout only, got:\n%s", got)
	}
}
