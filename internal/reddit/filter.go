package reddit

import "fmt"

// FilterAndCursor keeps the self-text posts of a page, in upstream order, and
// returns the fullname of the page's last declared entry as the cursor for the
// next page. A page declaring zero entries yields an empty cursor.
func FilterAndCursor(page ListingPage) ([]Post, string, error) {
	count := 0
	if page.Data.Dist != nil {
		count = *page.Data.Dist
	}

	cursor := ""
	if count > 0 {
		if len(page.Data.Children) < count {
			return nil, "", fmt.Errorf("%w: listing declares %d entries but has %d", ErrMalformedResponse, count, len(page.Data.Children))
		}
		name := page.Data.Children[count-1].Data.Name
		if name == nil {
			return nil, "", fmt.Errorf("%w: listing entry %d has no name", ErrMalformedResponse, count-1)
		}
		cursor = *name
	}

	posts := make([]Post, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		if !HasSelfText(child.Data) {
			continue
		}
		posts = append(posts, child.Data.post())
	}
	return posts, cursor, nil
}

func HasSelfText(entry ListingEntry) bool {
	return entry.SelfText != nil && *entry.SelfText != ""
}
