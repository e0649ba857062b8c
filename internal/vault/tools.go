package vault

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order.
func Tools(v *Vault) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		NewReadNoteTool(v),
		NewWriteNoteTool(v),
		NewListNotesTool(v),
		NewSearchNotesTool(v),
	}
}

// ReadNoteTool returns a note's content.
type ReadNoteTool struct {
	mcpserver.BaseTool
	vault *Vault
}

func NewReadNoteTool(v *Vault) *ReadNoteTool {
	return &ReadNoteTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "read_note",
			ToolDescription: "Read a note from the vault",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "path", Kind: mcpserver.String, Required: true, Description: "Note path relative to the vault root"},
			),
		},
		vault: v,
	}
}

func (t *ReadNoteTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	content, err := t.vault.Read(mcpserver.StringArg(args, "path"))
	if err != nil {
		return nil, err
	}
	return mcpserver.TextResult(content), nil
}

// WriteNoteTool creates or replaces a note.
type WriteNoteTool struct {
	mcpserver.BaseTool
	vault *Vault
}

func NewWriteNoteTool(v *Vault) *WriteNoteTool {
	return &WriteNoteTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "write_note",
			ToolDescription: "Create or overwrite a note in the vault",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "path", Kind: mcpserver.String, Required: true, Description: "Note path relative to the vault root"},
				mcpserver.Field{Name: "content", Kind: mcpserver.String, Required: true, Description: "Full note content"},
			),
		},
		vault: v,
	}
}

func (t *WriteNoteTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	path := mcpserver.StringArg(args, "path")
	if err := t.vault.Write(path, mcpserver.StringArg(args, "content")); err != nil {
		return nil, err
	}
	return mcpserver.TextResult(fmt.Sprintf("wrote %s", path)), nil
}

// ListNotesTool lists all notes in the vault.
type ListNotesTool struct {
	mcpserver.BaseTool
	vault *Vault
}

func NewListNotesTool(v *Vault) *ListNotesTool {
	return &ListNotesTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "list_notes",
			ToolDescription: "List all markdown notes in the vault",
			ToolSchema:      mcpserver.MustSchema(),
		},
		vault: v,
	}
}

func (t *ListNotesTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	notes, err := t.vault.List()
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(notes), nil
}

// SearchNotesTool searches note contents.
type SearchNotesTool struct {
	mcpserver.BaseTool
	vault *Vault
}

func NewSearchNotesTool(v *Vault) *SearchNotesTool {
	return &SearchNotesTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "search_notes",
			ToolDescription: "Search note contents for a substring",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "query", Kind: mcpserver.String, Required: true, Description: "Case-insensitive search string"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 20, Description: "Maximum number of matches"},
			),
		},
		vault: v,
	}
}

func (t *SearchNotesTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	matches, err := t.vault.Search(mcpserver.StringArg(args, "query"), mcpserver.IntArg(args, "limit"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(matches), nil
}
