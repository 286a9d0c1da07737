package collector

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// FeedItem is one entry read from an RSS or Atom feed.
type FeedItem struct {
	Title       string
	Summary     string
	Link        string
	Source      string
	PublishedAt time.Time
}

// RSSFetcher reads feeds with gofeed.
type RSSFetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
}

// NewRSSFetcher skips items older than maxAge; zero keeps everything.
func NewRSSFetcher(maxAge time.Duration) *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), maxAge: maxAge}
}

func (f *RSSFetcher) Fetch(ctx context.Context, url string) ([]FeedItem, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	now := time.Now()
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = url
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		if f.maxAge > 0 && pub.Before(now.Add(-f.maxAge)) {
			continue
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		items = append(items, FeedItem{
			Title:       item.Title,
			Summary:     desc,
			Link:        item.Link,
			Source:      source,
			PublishedAt: pub.UTC(),
		})
	}
	return items, nil
}

// recencyWindow maps a search recency to the maximum feed item age.
func recencyWindow(recency string) time.Duration {
	switch recency {
	case RecencyWeek:
		return 7 * 24 * time.Hour
	case RecencyMonth:
		return 31 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

var plainText = bluemonday.StrictPolicy()

// cleanText strips every HTML tag, decodes entities and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(plainText.Sanitize(s))), " ")
}
