// Package feeds adapts RSS/Atom feed retrieval as an MCP tool server.
package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NamedFeed is a feed preconfigured in the adapter's config file.
type NamedFeed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds the feed adapter configuration.
type Config struct {
	Feeds     []NamedFeed `yaml:"feeds"`
	UserAgent string      `yaml:"user_agent" env:"RSS_USER_AGENT"`
}

// Item is one normalized feed entry.
type Item struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published,omitempty"`
}

// Feed is a parsed feed with normalized items.
type Feed struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Fetcher retrieves and parses RSS 2.0 and Atom feeds.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a feed fetcher.
func NewFetcher(cfg Config) *Fetcher {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "mcp-adapters-rss/1.0"
	}
	return &Fetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: ua,
	}
}

// Fetch retrieves a feed URL and parses it as RSS 2.0 or Atom.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: status %d", feedURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	// Try RSS 2.0 first
	var rss rssFeed
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		return &Feed{Title: rss.Channel.Title, Items: convertRSSItems(rss.Channel.Items)}, nil
	}

	// Try Atom
	var atom atomFeed
	if err := xml.Unmarshal(body, &atom); err == nil && len(atom.Entries) > 0 {
		return &Feed{Title: atom.Title, Items: convertAtomEntries(atom.Entries)}, nil
	}

	return nil, fmt.Errorf("failed to parse %s as RSS or Atom", feedURL)
}

// RSS 2.0 types
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Author      string `xml:"author"`
}

// Atom types
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	Link    atomLink `xml:"link"`
	Summary string   `xml:"summary"`
	Updated string   `xml:"updated"`
	Author  struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

func convertRSSItems(items []rssItem) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		pubDate, _ := time.Parse(time.RFC1123Z, item.PubDate)
		if pubDate.IsZero() {
			pubDate, _ = time.Parse(time.RFC1123, item.PubDate)
		}
		out = append(out, Item{
			Title:     item.Title,
			URL:       item.Link,
			Author:    item.Author,
			Summary:   item.Description,
			Published: pubDate,
		})
	}
	return out
}

func convertAtomEntries(entries []atomEntry) []Item {
	out := make([]Item, 0, len(entries))
	for _, entry := range entries {
		updated, _ := time.Parse(time.RFC3339, entry.Updated)
		out = append(out, Item{
			Title:     entry.Title,
			URL:       entry.Link.Href,
			Author:    entry.Author.Name,
			Summary:   entry.Summary,
			Published: updated,
		})
	}
	return out
}
