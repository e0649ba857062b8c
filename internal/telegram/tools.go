package telegram

import (
	"context"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order.
func Tools(client *Client) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		NewSendMessageTool(client),
		NewGetMeTool(client),
		NewGetUpdatesTool(client),
	}
}

// SendMessageTool delivers a text message to a chat or channel.
type SendMessageTool struct {
	mcpserver.BaseTool
	client *Client
}

func NewSendMessageTool(client *Client) *SendMessageTool {
	return &SendMessageTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "send_message",
			ToolDescription: "Send a text message to a Telegram chat or channel",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "chat_id", Kind: mcpserver.String, Required: true, Description: "Target chat ID or @channel username"},
				mcpserver.Field{Name: "text", Kind: mcpserver.String, Required: true, Description: "Message text"},
				mcpserver.Field{Name: "parse_mode", Kind: mcpserver.String, Default: "MarkdownV2", Enum: []string{"MarkdownV2", "HTML", "Markdown"}, Description: "Text formatting mode"},
			),
		},
		client: client,
	}
}

func (t *SendMessageTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	chatID := mcpserver.StringArg(args, "chat_id")
	text := mcpserver.StringArg(args, "text")
	parseMode := mcpserver.StringArg(args, "parse_mode")

	msg, err := t.client.SendMessage(ctx, chatID, text, parseMode)
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(map[string]any{
		"message_id": msg.MessageID,
		"chat_id":    chatID,
		"text":       msg.Text,
	}), nil
}

// GetMeTool reports the bot's own identity.
type GetMeTool struct {
	mcpserver.BaseTool
	client *Client
}

func NewGetMeTool(client *Client) *GetMeTool {
	return &GetMeTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "get_me",
			ToolDescription: "Get the bot's own account information",
			ToolSchema:      mcpserver.MustSchema(),
		},
		client: client,
	}
}

func (t *GetMeTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	user, err := t.client.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(user), nil
}

// GetUpdatesTool fetches pending updates addressed to the bot.
type GetUpdatesTool struct {
	mcpserver.BaseTool
	client *Client
}

func NewGetUpdatesTool(client *Client) *GetUpdatesTool {
	return &GetUpdatesTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "get_updates",
			ToolDescription: "Fetch pending updates (messages) for the bot",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "offset", Kind: mcpserver.Integer, Description: "Identifier of the first update to return"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 10, Description: "Maximum number of updates"},
			),
		},
		client: client,
	}
}

func (t *GetUpdatesTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	offset := mcpserver.IntArg(args, "offset")
	limit := mcpserver.IntArg(args, "limit")

	updates, err := t.client.GetUpdates(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(updates), nil
}
