package mailer

import (
	"context"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order.
func Tools(m *Mailer) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		NewSendEmailTool(m),
	}
}

// SendEmailTool sends an email from the configured account.
type SendEmailTool struct {
	mcpserver.BaseTool
	mailer *Mailer
}

func NewSendEmailTool(m *Mailer) *SendEmailTool {
	return &SendEmailTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "send_email",
			ToolDescription: "Send an email from the configured account",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "to", Kind: mcpserver.String, Required: true, Description: "Recipient address, or several separated by commas"},
				mcpserver.Field{Name: "subject", Kind: mcpserver.String, Required: true, Description: "Subject line"},
				mcpserver.Field{Name: "body", Kind: mcpserver.String, Required: true, Description: "Plain text message body"},
			),
		},
		mailer: m,
	}
}

func (t *SendEmailTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	to := mcpserver.StringArg(args, "to")
	subject := mcpserver.StringArg(args, "subject")
	if err := t.mailer.Send(ctx, to, subject, mcpserver.StringArg(args, "body")); err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(map[string]any{
		"delivered": true,
		"to":        to,
		"subject":   subject,
	}), nil
}
