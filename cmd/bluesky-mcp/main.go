// bluesky-mcp — Bluesky (atproto) as an MCP stdio server.
//
// Usage:
//
//	bluesky-mcp                # serve MCP over stdin/stdout
//	bluesky-mcp version        # print version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/RobinCoderZhao/mcp-adapters/internal/bluesky"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/config"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "bluesky-mcp",
		Short: "Bluesky (atproto) as an MCP server",
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
			fmt.Printf("bluesky-mcp %s\n", version)
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

	var cfg bluesky.Config
	if err := config.LoadOrDefault(configPath, &cfg); err != nil {
		return err
	}
	if cfg.Identifier == "" || cfg.Password == "" {
		return fmt.Errorf("BLUESKY_IDENTIFIER and BLUESKY_APP_PASSWORD are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bluesky.NewClient(cfg)
	if err := client.Login(ctx); err != nil {
		return fmt.Errorf("bluesky login: %w", err)
	}
	logger.Info("authenticated", "identifier", cfg.Identifier)

	srv := mcpserver.New("bluesky-mcp", version)
	srv.SetLogger(logger)
	srv.Use(mcpserver.RecoveryMiddleware())
	srv.Use(mcpserver.LoggingMiddleware(logger))
	srv.RegisterTools(bluesky.Tools(client)...)

	return srv.RunStdio(ctx)
}
