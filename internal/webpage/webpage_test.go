package webpage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RobinCoderZhao/mcp-adapters/internal/webpage"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Sample Page</title><script>var x = 1;</script></head>
<body>
<nav><a href="/nav">skip me</a></nav>
<h1>Welcome</h1>
<p>Hello <b>world</b>.</p>
<ul><li>one</li><li>two</li></ul>
<a href="/relative">Relative</a>
<a href="https://other.example.com/abs">Absolute</a>
<a href="/relative">Duplicate</a>
<footer>footer text</footer>
</body>
</html>`

func pageServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
}

func TestFetch(t *testing.T) {
	ts := pageServer()
	defer ts.Close()

	fetcher := webpage.NewFetcher(webpage.Config{})
	page, err := fetcher.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Title != "Sample Page" {
		t.Fatalf("unexpected title %q", page.Title)
	}
	if !strings.Contains(page.Text, "# Welcome") || !strings.Contains(page.Text, "- one") {
		t.Fatalf("unexpected text: %q", page.Text)
	}
	if strings.Contains(page.Text, "var x") || strings.Contains(page.Text, "footer text") {
		t.Fatalf("script/footer content must be stripped: %q", page.Text)
	}
}

func TestLinks(t *testing.T) {
	ts := pageServer()
	defer ts.Close()

	fetcher := webpage.NewFetcher(webpage.Config{})
	links, err := fetcher.Links(context.Background(), ts.URL, 50)
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	// nav link + relative + absolute, duplicate dropped
	if len(links) != 3 {
		t.Fatalf("expected 3 unique links, got %d: %+v", len(links), links)
	}
	if links[1].Href != ts.URL+"/relative" || links[1].Text != "Relative" {
		t.Fatalf("relative link not resolved: %+v", links[1])
	}
	if links[2].Href != "https://other.example.com/abs" {
		t.Fatalf("unexpected absolute link: %+v", links[2])
	}
}

func TestLinks_Limit(t *testing.T) {
	ts := pageServer()
	defer ts.Close()

	fetcher := webpage.NewFetcher(webpage.Config{})
	links, err := fetcher.Links(context.Background(), ts.URL, 1)
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link with limit, got %d", len(links))
	}
}

func TestFetch_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	s := mcpserver.New("webpage-mcp", "test")
	s.RegisterTools(webpage.Tools(webpage.NewFetcher(webpage.Config{}))...)

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{
			"name":      "fetch_page",
			"arguments": map[string]any{"url": ts.URL},
		},
	})
	if resp.Error != nil {
		t.Fatalf("HTTP failure must stay in-band: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "410") {
		t.Fatalf("unexpected result: %+v", result)
	}
}
