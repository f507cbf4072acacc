package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/glabrego/reddit-cli/internal/reddit"
)

type RedditClient interface {
	FetchListing(ctx context.Context, req reddit.ListingRequest) (reddit.ListingPage, error)
	FetchComments(ctx context.Context, postID string, sort reddit.SortMode) ([]reddit.Comment, error)
}

type Repository interface {
	SaveVisit(ctx context.Context, post reddit.Post) error
	VisitedIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// Listing is one filtered page and the cursor that continues it.
type Listing struct {
	Posts  []reddit.Post
	Cursor string
}

type Service struct {
	client RedditClient
	repo   Repository
}

// NewService wires the client to an optional history repository; a nil repo
// disables visit tracking.
func NewService(client RedditClient, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

func (s *Service) Listing(ctx context.Context, req reddit.ListingRequest) (Listing, error) {
	start := time.Now()
	page, err := s.client.FetchListing(ctx, req)
	if err != nil {
		return Listing{}, fmt.Errorf("fetch listing: %w", err)
	}

	posts, cursor, err := reddit.FilterAndCursor(page)
	if err != nil {
		return Listing{}, fmt.Errorf("filter listing: %w", err)
	}
	log.Printf("listing query=%q sort=%s paginate=%t: %d posts kept in %s", req.Query, req.Sort, req.Paginate, len(posts), time.Since(start))

	if err := s.markVisited(ctx, posts); err != nil {
		log.Printf("load visit history: %v", err)
	}
	return Listing{Posts: posts, Cursor: cursor}, nil
}

func (s *Service) Comments(ctx context.Context, postID string, sort reddit.SortMode) ([]reddit.Comment, error) {
	start := time.Now()
	comments, err := s.client.FetchComments(ctx, postID, sort)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	log.Printf("comments post=%s sort=%s: %d comments in %s", postID, sort, len(comments), time.Since(start))
	return comments, nil
}

func (s *Service) RecordVisit(ctx context.Context, post reddit.Post) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveVisit(ctx, post); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *Service) markVisited(ctx context.Context, posts []reddit.Post) error {
	if s.repo == nil || len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	visited, err := s.repo.VisitedIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Visited = visited[posts[i].ID]
	}
	return nil
}
