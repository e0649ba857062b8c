package webpage

import (
	"context"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order.
func Tools(fetcher *Fetcher) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		NewFetchPageTool(fetcher),
		NewExtractLinksTool(fetcher),
	}
}

// FetchPageTool retrieves a page and returns its extracted text.
type FetchPageTool struct {
	mcpserver.BaseTool
	fetcher *Fetcher
}

func NewFetchPageTool(fetcher *Fetcher) *FetchPageTool {
	return &FetchPageTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "fetch_page",
			ToolDescription: "Fetch a web page and extract its readable text",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "url", Kind: mcpserver.String, Required: true, Description: "Page URL"},
			),
		},
		fetcher: fetcher,
	}
}

func (t *FetchPageTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	page, err := t.fetcher.Fetch(ctx, mcpserver.StringArg(args, "url"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(page), nil
}

// ExtractLinksTool retrieves a page and returns its anchors.
type ExtractLinksTool struct {
	mcpserver.BaseTool
	fetcher *Fetcher
}

func NewExtractLinksTool(fetcher *Fetcher) *ExtractLinksTool {
	return &ExtractLinksTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "extract_links",
			ToolDescription: "Fetch a web page and list the links it contains",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "url", Kind: mcpserver.String, Required: true, Description: "Page URL"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 50, Description: "Maximum number of links"},
			),
		},
		fetcher: fetcher,
	}
}

func (t *ExtractLinksTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	links, err := t.fetcher.Links(ctx, mcpserver.StringArg(args, "url"), mcpserver.IntArg(args, "limit"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(map[string]any{"links": links, "count": len(links)}), nil
}
