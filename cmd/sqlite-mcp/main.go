// sqlite-mcp — a SQLite database as an MCP stdio server.
//
// Usage:
//
//	sqlite-mcp                 # serve MCP over stdin/stdout
//	sqlite-mcp version         # print version
//
// With SQLITE_READ_ONLY=true the database opens read-only and the
// execute tool is not offered at all.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/RobinCoderZhao/mcp-adapters/internal/sqlitedb"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/config"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "sqlite-mcp",
		Short: "SQLite database as an MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "config file path")
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sqlite-mcp %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var cfg sqlitedb.Config
	if err := config.LoadOrDefault(configPath, &cfg); err != nil {
		return err
	}

	db, err := sqlitedb.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.Path, "read_only", cfg.ReadOnly)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.New("sqlite-mcp", version)
	srv.SetLogger(logger)
	srv.Use(mcpserver.RecoveryMiddleware())
	srv.Use(mcpserver.LoggingMiddleware(logger))
	srv.RegisterTools(sqlitedb.Tools(db, cfg)...)

	return srv.RunStdio(ctx)
}
