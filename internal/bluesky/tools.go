package bluesky

import (
	"context"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order.
func Tools(client *Client) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		NewCreatePostTool(client),
		NewGetProfileTool(client),
		NewSearchPostsTool(client),
	}
}

// CreatePostTool publishes a post to the authenticated account's feed.
type CreatePostTool struct {
	mcpserver.BaseTool
	client *Client
}

func NewCreatePostTool(client *Client) *CreatePostTool {
	return &CreatePostTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "create_post",
			ToolDescription: "Publish a text post to the authenticated Bluesky account",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "text", Kind: mcpserver.String, Required: true, Description: "Post text, up to 300 characters"},
			),
		},
		client: client,
	}
}

func (t *CreatePostTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	ref, err := t.client.CreatePost(ctx, mcpserver.StringArg(args, "text"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(ref), nil
}

// GetProfileTool fetches an actor's profile.
type GetProfileTool struct {
	mcpserver.BaseTool
	client *Client
}

func NewGetProfileTool(client *Client) *GetProfileTool {
	return &GetProfileTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "get_profile",
			ToolDescription: "Get a Bluesky profile by handle or DID",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "actor", Kind: mcpserver.String, Required: true, Description: "Handle (e.g. alice.bsky.social) or DID"},
			),
		},
		client: client,
	}
}

func (t *GetProfileTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	profile, err := t.client.GetProfile(ctx, mcpserver.StringArg(args, "actor"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(profile), nil
}

// SearchPostsTool searches public posts.
type SearchPostsTool struct {
	mcpserver.BaseTool
	client *Client
}

func NewSearchPostsTool(client *Client) *SearchPostsTool {
	return &SearchPostsTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "search_posts",
			ToolDescription: "Search public Bluesky posts",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "q", Kind: mcpserver.String, Required: true, Description: "Search query"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 25, Description: "Maximum number of results"},
			),
		},
		client: client,
	}
}

func (t *SearchPostsTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	posts, err := t.client.SearchPosts(ctx, mcpserver.StringArg(args, "q"), mcpserver.IntArg(args, "limit"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(posts), nil
}
