package feeds_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RobinCoderZhao/mcp-adapters/internal/feeds"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

const rssSample = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Example Blog</title>
<item><title>First</title><link>https://example.com/1</link><description>one</description><pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate></item>
<item><title>Second</title><link>https://example.com/2</link><description>two</description></item>
<item><title>Third</title><link>https://example.com/3</link><description>three</description></item>
</channel>
</rss>`

const atomSample = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Atom Feed</title>
<entry><title>Entry</title><link href="https://example.com/a"/><summary>sum</summary><updated>2023-01-01T00:00:00Z</updated><author><name>alice</name></author></entry>
</feed>`

func TestFetch_RSS(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssSample))
	}))
	defer ts.Close()

	fetcher := feeds.NewFetcher(feeds.Config{})
	feed, err := fetcher.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if feed.Title != "Example Blog" || len(feed.Items) != 3 {
		t.Fatalf("unexpected feed: %+v", feed)
	}
	if feed.Items[0].URL != "https://example.com/1" {
		t.Fatalf("unexpected first item: %+v", feed.Items[0])
	}
	if feed.Items[0].Published.IsZero() {
		t.Fatal("expected parsed pubDate")
	}
}

func TestFetch_Atom(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomSample))
	}))
	defer ts.Close()

	fetcher := feeds.NewFetcher(feeds.Config{})
	feed, err := fetcher.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if feed.Title != "Atom Feed" || len(feed.Items) != 1 {
		t.Fatalf("unexpected feed: %+v", feed)
	}
	if feed.Items[0].Author != "alice" {
		t.Fatalf("unexpected author: %+v", feed.Items[0])
	}
}

func TestFetch_Garbage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer ts.Close()

	fetcher := feeds.NewFetcher(feeds.Config{})
	if _, err := fetcher.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFetchFeedTool_LimitDefault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssSample))
	}))
	defer ts.Close()

	cfg := feeds.Config{}
	s := mcpserver.New("rss-mcp", "test")
	s.RegisterTools(feeds.Tools(feeds.NewFetcher(cfg), cfg)...)

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{
			"name":      "fetch_feed",
			"arguments": map[string]any{"url": ts.URL, "limit": 2},
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if result.IsError {
		t.Fatalf("expected success, got %+v", result)
	}

	var feed feeds.Feed
	if err := json.Unmarshal([]byte(result.Content[0].Text), &feed); err != nil {
		t.Fatalf("result does not round-trip: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items after limit, got %d", len(feed.Items))
	}
}

func TestFetchConfigured_EnumAdvertised(t *testing.T) {
	cfg := feeds.Config{Feeds: []feeds.NamedFeed{
		{Name: "blog", URL: "https://example.com/rss"},
		{Name: "news", URL: "https://example.com/news.xml"},
	}}
	s := mcpserver.New("rss-mcp", "test")
	s.RegisterTools(feeds.Tools(feeds.NewFetcher(cfg), cfg)...)

	tools := s.Registry().List(context.Background())
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	props := tools[1].InputSchema["properties"].(map[string]any)
	name := props["name"].(map[string]any)
	enum, ok := name["enum"].([]any)
	if !ok || len(enum) != 2 || enum[0] != "blog" {
		t.Fatalf("expected feed names in enum, got %v", name["enum"])
	}

	// A name outside the enum is rejected before any fetch.
	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 2, Method: "tools/call",
		Params: map[string]any{
			"name":      "fetch_configured",
			"arguments": map[string]any{"name": "unknown"},
		},
	})
	if resp.Error == nil || resp.Error.Code != mcpserver.CodeInvalidParams {
		t.Fatalf("expected InvalidParams for enum violation, got %+v", resp.Error)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	fetcher := feeds.NewFetcher(feeds.Config{})
	if _, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/feed.xml"); err == nil {
		t.Fatal("expected connection error")
	}
}
