// smtp-mcp — SMTP mail delivery as an MCP stdio server.
//
// Usage:
//
//	smtp-mcp                   # serve MCP over stdin/stdout
//	smtp-mcp version           # print version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/RobinCoderZhao/mcp-adapters/internal/mailer"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/config"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "smtp-mcp",
		Short: "SMTP mail delivery as an MCP server",
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
			fmt.Printf("smtp-mcp %s\n", version)
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

	var cfg mailer.Config
	if err := config.LoadOrDefault(configPath, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := mailer.New(cfg)
	logger.Info("mailer ready", "host", cfg.Host, "from", cfg.From)

	srv := mcpserver.New("smtp-mcp", version)
	srv.SetLogger(logger)
	srv.Use(mcpserver.RecoveryMiddleware())
	srv.Use(mcpserver.LoggingMiddleware(logger))
	srv.RegisterTools(mailer.Tools(m)...)

	return srv.RunStdio(ctx)
}
