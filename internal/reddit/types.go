package reddit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks upstream payloads that decode but break the
// listing contract (missing names, short child lists, wrong envelope).
var ErrMalformedResponse = errors.New("malformed upstream response")

// SortMode is the ordering the service applies to a listing or comment tree.
type SortMode int

const (
	SortHot SortMode = iota
	SortBest
	SortControversial
)

var sortModeNames = [...]string{"hot", "best", "controversial"}

func (s SortMode) String() string {
	if s < 0 || int(s) >= len(sortModeNames) {
		return "hot"
	}
	return sortModeNames[s]
}

func ParseSortMode(raw string) (SortMode, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, candidate := range sortModeNames {
		if candidate == name {
			return SortMode(i), nil
		}
	}
	return SortHot, fmt.Errorf("unknown sort mode: %q", raw)
}

// Post is the subset of listing fields the app reads.
type Post struct {
	ID           string
	Title        string
	Subreddit    string
	SelfText     string
	SelfTextHTML string
	Author       string
	Permalink    string
	URL          string
	Score        int
	NumComments  int

	Visited bool
}

type Comment struct {
	Author string
	Body   string
}

// ListingPage mirrors the listing envelope. Pointer fields distinguish an
// absent key from its zero value.
type ListingPage struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

type ListingData struct {
	Dist     *int           `json:"dist"`
	After    *string        `json:"after"`
	Children []ListingChild `json:"children"`
}

type ListingChild struct {
	Kind string       `json:"kind"`
	Data ListingEntry `json:"data"`
}

type ListingEntry struct {
	Name                  *string `json:"name"`
	Title                 string  `json:"title"`
	SubredditNamePrefixed string  `json:"subreddit_name_prefixed"`
	SelfText              *string `json:"selftext"`
	SelfTextHTML          *string `json:"selftext_html"`
	Author                string  `json:"author"`
	Permalink             string  `json:"permalink"`
	URL                   string  `json:"url"`
	Score                 int     `json:"score"`
	NumComments           int     `json:"num_comments"`
}

func (e ListingEntry) post() Post {
	p := Post{
		Title:       e.Title,
		Subreddit:   e.SubredditNamePrefixed,
		Author:      e.Author,
		Permalink:   e.Permalink,
		URL:         e.URL,
		Score:       e.Score,
		NumComments: e.NumComments,
	}
	if e.Name != nil {
		p.ID = *e.Name
	}
	if e.SelfText != nil {
		p.SelfText = *e.SelfText
	}
	if e.SelfTextHTML != nil {
		p.SelfTextHTML = *e.SelfTextHTML
	}
	return p
}

type commentListing struct {
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				Author *string `json:"author"`
				Body   *string `json:"body"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}
