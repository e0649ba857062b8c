package sqlitedb

import (
	"context"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// Tools returns the adapter's tool set in catalog order. The execute
// tool is omitted for read-only databases.
func Tools(db *DB, cfg Config) []mcpserver.ToolHandler {
	handlers := []mcpserver.ToolHandler{
		NewQueryTool(db),
		NewListTablesTool(db),
		NewDescribeTableTool(db),
	}
	if !cfg.ReadOnly {
		handlers = append(handlers, NewExecuteTool(db))
	}
	return handlers
}

// QueryTool runs read-only SQL.
type QueryTool struct {
	mcpserver.BaseTool
	db *DB
}

func NewQueryTool(db *DB) *QueryTool {
	return &QueryTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "query",
			ToolDescription: "Run a read-only SQL query (SELECT/WITH/PRAGMA/EXPLAIN)",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "sql", Kind: mcpserver.String, Required: true, Description: "SQL statement"},
				mcpserver.Field{Name: "limit", Kind: mcpserver.Integer, Default: 100, Description: "Maximum number of rows"},
			),
		},
		db: db,
	}
}

func (t *QueryTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	rows, err := t.db.Query(ctx, mcpserver.StringArg(args, "sql"), mcpserver.IntArg(args, "limit"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(map[string]any{"rows": rows, "count": len(rows)}), nil
}

// ExecuteTool runs a write statement.
type ExecuteTool struct {
	mcpserver.BaseTool
	db *DB
}

func NewExecuteTool(db *DB) *ExecuteTool {
	return &ExecuteTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "execute",
			ToolDescription: "Run a write SQL statement (INSERT/UPDATE/DELETE/DDL)",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "sql", Kind: mcpserver.String, Required: true, Description: "SQL statement"},
			),
		},
		db: db,
	}
}

func (t *ExecuteTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	res, err := t.db.Execute(ctx, mcpserver.StringArg(args, "sql"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(res), nil
}

// ListTablesTool lists user tables.
type ListTablesTool struct {
	mcpserver.BaseTool
	db *DB
}

func NewListTablesTool(db *DB) *ListTablesTool {
	return &ListTablesTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "list_tables",
			ToolDescription: "List all tables in the database",
			ToolSchema:      mcpserver.MustSchema(),
		},
		db: db,
	}
}

func (t *ListTablesTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	tables, err := t.db.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(map[string]any{"tables": tables}), nil
}

// DescribeTableTool returns a table's columns.
type DescribeTableTool struct {
	mcpserver.BaseTool
	db *DB
}

func NewDescribeTableTool(db *DB) *DescribeTableTool {
	return &DescribeTableTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "describe_table",
			ToolDescription: "Show the column definitions of a table",
			ToolSchema: mcpserver.MustSchema(
				mcpserver.Field{Name: "table", Kind: mcpserver.String, Required: true, Description: "Table name"},
			),
		},
		db: db,
	}
}

func (t *DescribeTableTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	columns, err := t.db.DescribeTable(ctx, mcpserver.StringArg(args, "table"))
	if err != nil {
		return nil, err
	}
	return mcpserver.SuccessResult(map[string]any{"columns": columns}), nil
}
