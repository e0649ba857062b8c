package mcpserver

import "context"

// ToolHandler is the interface every tool implements. The dispatcher
// validates arguments against Schema() before Execute is called, so
// Execute only ever sees conforming, defaulted arguments.
type ToolHandler interface {
	// Name returns the unique tool name within a catalog.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Schema returns the declared input shape.
	Schema() *Schema

	// Execute runs the tool with validated arguments. An error return
	// is a capability failure; it is converted to an IsError result
	// at the dispatch boundary and never escapes further.
	Execute(ctx context.Context, args map[string]any) (*ToolCallResult, error)
}

// BaseTool provides a base implementation for common tool fields.
// Embed this in your tool structs and implement Execute().
type BaseTool struct {
	ToolName        string
	ToolDescription string
	ToolSchema      *Schema
}

func (t *BaseTool) Name() string        { return t.ToolName }
func (t *BaseTool) Description() string { return t.ToolDescription }
func (t *BaseTool) Schema() *Schema     { return t.ToolSchema }

// Middleware is a function that wraps a request handler.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFunc is a function that handles a JSON-RPC request.
type HandlerFunc func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse
