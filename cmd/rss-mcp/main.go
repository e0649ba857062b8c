// rss-mcp — RSS/Atom feed retrieval as an MCP stdio server.
//
// Usage:
//
//	rss-mcp                    # serve MCP over stdin/stdout
//	rss-mcp version            # print version
//
// Feeds listed in the config file become available through the
// fetch_configured tool; fetch_feed takes any URL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/RobinCoderZhao/mcp-adapters/internal/feeds"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/config"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "rss-mcp",
		Short: "RSS/Atom feeds as an MCP server",
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
			fmt.Printf("rss-mcp %s\n", version)
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

	var cfg feeds.Config
	if err := config.LoadOrDefault(configPath, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := feeds.NewFetcher(cfg)
	logger.Info("configured feeds", "count", len(cfg.Feeds))

	srv := mcpserver.New("rss-mcp", version)
	srv.SetLogger(logger)
	srv.Use(mcpserver.RecoveryMiddleware())
	srv.Use(mcpserver.LoggingMiddleware(logger))
	srv.RegisterTools(feeds.Tools(fetcher, cfg)...)

	return srv.RunStdio(ctx)
}
