package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reddit-cli/internal/app"
	"github.com/glabrego/reddit-cli/internal/reddit"
)

type Service interface {
	Listing(ctx context.Context, req reddit.ListingRequest) (app.Listing, error)
	Comments(ctx context.Context, postID string, sort reddit.SortMode) ([]reddit.Comment, error)
	RecordVisit(ctx context.Context, post reddit.Post) error
}

// ListingSuccessMsg carries a filtered page. Seq identifies the request so
// the model can drop stale responses.
type ListingSuccessMsg struct {
	Seq      int
	Request  reddit.ListingRequest
	Listing  app.Listing
	Duration time.Duration
}

type ListingErrorMsg struct {
	Seq     int
	Request reddit.ListingRequest
	Err     error
}

type CommentsSuccessMsg struct {
	Seq      int
	PostID   string
	Comments []reddit.Comment
}

type CommentsErrorMsg struct {
	Seq    int
	PostID string
	Err    error
}

type VisitErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
}

type OpenURLErrorMsg struct {
	Err error
}

func ListingCmd(service Service, seq int, req reddit.ListingRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		start := time.Now()

		listing, err := service.Listing(ctx, req)
		if err != nil {
			return ListingErrorMsg{Seq: seq, Request: req, Err: err}
		}
		return ListingSuccessMsg{Seq: seq, Request: req, Listing: listing, Duration: time.Since(start)}
	}
}

func CommentsCmd(service Service, seq int, postID string, sort reddit.SortMode) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		comments, err := service.Comments(ctx, postID, sort)
		if err != nil {
			return CommentsErrorMsg{Seq: seq, PostID: postID, Err: err}
		}
		return CommentsSuccessMsg{Seq: seq, PostID: postID, Comments: comments}
	}
}

// RecordVisitCmd reports only failures; a successful write needs no update.
func RecordVisitCmd(service Service, post reddit.Post) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := service.RecordVisit(ctx, post); err != nil {
			return VisitErrorMsg{Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened post in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
