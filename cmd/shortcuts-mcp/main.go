// shortcuts-mcp — macOS Shortcuts automations as an MCP stdio server.
//
// Usage:
//
//	shortcuts-mcp              # serve MCP over stdin/stdout
//	shortcuts-mcp version      # print version
//
// The catalog is dynamic: each tools/list re-runs `shortcuts list`,
// so installing or deleting an automation is reflected on the next
// listing without restarting the adapter.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/RobinCoderZhao/mcp-adapters/internal/shortcuts"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/config"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shortcuts-mcp",
		Short: "macOS Shortcuts as an MCP server",
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
			fmt.Printf("shortcuts-mcp %s\n", version)
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

	var cfg shortcuts.Config
	if err := config.LoadOrDefault(configPath, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := shortcuts.NewService(cfg, shortcuts.NewOSRunner())
	names, err := service.List(ctx)
	if err != nil {
		return fmt.Errorf("shortcuts CLI probe: %w", err)
	}
	logger.Info("shortcuts available", "count", len(names))

	srv := mcpserver.New("shortcuts-mcp", version)
	srv.SetLogger(logger)
	srv.Use(mcpserver.RecoveryMiddleware())
	srv.Use(mcpserver.LoggingMiddleware(logger))
	srv.SetCatalogSource(shortcuts.NewCatalogSource(service))

	return srv.RunStdio(ctx)
}
