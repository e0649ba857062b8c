package shortcuts

import (
	"context"
	"fmt"
	"strings"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// CatalogSource re-probes installed shortcuts on every listing. The
// catalog is one static run_shortcut tool plus one tool per installed
// automation, so clients see the device's current state.
type CatalogSource struct {
	service *Service
}

// NewCatalogSource creates the dynamic catalog source.
func NewCatalogSource(service *Service) *CatalogSource {
	return &CatalogSource{service: service}
}

// Tools implements mcpserver.CatalogSource. Display names that
// slugify identically get a numeric suffix so every installed
// shortcut stays reachable.
func (c *CatalogSource) Tools(ctx context.Context) ([]mcpserver.ToolHandler, error) {
	names, err := c.service.List(ctx)
	if err != nil {
		return nil, err
	}

	handlers := []mcpserver.ToolHandler{NewRunShortcutTool(c.service)}
	taken := map[string]bool{"run_shortcut": true}
	for _, name := range names {
		slug := "run_" + slugify(name)
		for n := 2; taken[slug]; n++ {
			slug = fmt.Sprintf("run_%s_%d", slugify(name), n)
		}
		taken[slug] = true
		handlers = append(handlers, NewNamedShortcutTool(c.service, name, slug))
	}
	return handlers, nil
}

// RunShortcutTool runs any shortcut by name.
type RunShortcutTool struct {
	mcpserver.BaseTool
	service *Service
}

func NewRunShortcutTool(service *Service) *RunShortcutTool {
	return &RunShortcutTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "run_shortcut",
			ToolDescription: "Run an installed shortcut by name",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "name", Kind: mcpserver.String, Required: true, Description: "Shortcut name as shown by list"},
				mcpserver.Field{Name: "input", Kind: mcpserver.String, Description: "Text passed to the shortcut as input"},
			),
		},
		service: service,
	}
}

func (t *RunShortcutTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	out, err := t.service.Run(ctx, mcpserver.StringArg(args, "name"), mcpserver.StringArg(args, "input"))
	if err != nil {
		return nil, err
	}
	return mcpserver.TextResult(out), nil
}

// NamedShortcutTool runs one specific installed shortcut.
type NamedShortcutTool struct {
	mcpserver.BaseTool
	service  *Service
	shortcut string
}

func NewNamedShortcutTool(service *Service, shortcut, toolName string) *NamedShortcutTool {
	return &NamedShortcutTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        toolName,
			ToolDescription: fmt.Sprintf("Run the %q shortcut", shortcut),
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "input", Kind: mcpserver.String, Description: "Text passed to the shortcut as input"},
			),
		},
		service:  service,
		shortcut: shortcut,
	}
}

func (t *NamedShortcutTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	out, err := t.service.Run(ctx, t.shortcut, mcpserver.StringArg(args, "input"))
	if err != nil {
		return nil, err
	}
	return mcpserver.TextResult(out), nil
}

// slugify turns a shortcut display name into a tool-name suffix.
func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
