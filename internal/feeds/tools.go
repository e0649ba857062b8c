package feeds

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order. The
// fetch_configured tool is only offered when named feeds exist.
func Tools(fetcher *Fetcher, cfg Config) []mcpserver.ToolHandler {
	handlers := []mcpserver.ToolHandler{NewFetchFeedTool(fetcher)}
	if len(cfg.Feeds) > 0 {
		handlers = append(handlers, NewFetchConfiguredTool(fetcher, cfg.Feeds))
	}
	return handlers
}

// FetchFeedTool retrieves an arbitrary feed URL.
type FetchFeedTool struct {
	mcpserver.BaseTool
	fetcher *Fetcher
}

func NewFetchFeedTool(fetcher *Fetcher) *FetchFeedTool {
	return &FetchFeedTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "fetch_feed",
			ToolDescription: "Fetch and parse an RSS or Atom feed by URL",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "url", Kind: mcpserver.String, Required: true, Description: "Feed URL"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 10, Description: "Maximum number of items"},
			),
		},
		fetcher: fetcher,
	}
}

func (t *FetchFeedTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	feed, err := t.fetcher.Fetch(ctx, mcpserver.StringArg(args, "url"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(truncate(feed, mcpserver.IntArg(args, "limit"))), nil
}

// FetchConfiguredTool retrieves one of the feeds named in the config
// file; the name enum keeps the advertised schema in sync with the
// configuration.
type FetchConfiguredTool struct {
	mcpserver.BaseTool
	fetcher *Fetcher
	byName  map[string]string
}

func NewFetchConfiguredTool(fetcher *Fetcher, feeds []NamedFeed) *FetchConfiguredTool {
	names := make([]string, 0, len(feeds))
	byName := make(map[string]string, len(feeds))
	for _, f := range feeds {
		names = append(names, f.Name)
		byName[f.Name] = f.URL
	}
	return &FetchConfiguredTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "fetch_configured",
			ToolDescription: "Fetch one of the preconfigured feeds by name",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "name", Kind: mcpserver.String, Required: true, Enum: names, Description: "Configured feed name"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 10, Description: "Maximum number of items"},
			),
		},
		fetcher: fetcher,
		byName:  byName,
	}
}

func (t *FetchConfiguredTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	name := mcpserver.StringArg(args, "name")
	url, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("no configured feed named %s", name)
	}
	feed, err := t.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(truncate(feed, mcpserver.IntArg(args, "limit"))), nil
}

func truncate(feed *Feed, limit int) *Feed {
	if limit > 0 && len(feed.Items) > limit {
		clipped := *feed
		clipped.Items = feed.Items[:limit]
		return &clipped
	}
	return feed
}
