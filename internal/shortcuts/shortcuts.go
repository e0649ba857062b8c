// Package shortcuts adapts the macOS `shortcuts` automation CLI as an
// MCP tool server. The catalog is dynamic: every listing re-probes
// the installed shortcuts.
package shortcuts

import (
	"context"
	"fmt"
	"strings"
)

// Config holds the shortcuts adapter configuration.
type Config struct {
	// Binary is the shortcuts executable, overridable for testing.
	Binary string `yaml:"binary" env:"SHORTCUTS_BINARY"`
}

// Service wraps the shortcuts CLI.
type Service struct {
	runner Runner
	binary string
}

// NewService creates a service around the given runner.
func NewService(cfg Config, runner Runner) *Service {
	binary := cfg.Binary
	if binary == "" {
		binary = "shortcuts"
	}
	return &Service{runner: runner, binary: binary}
}

// List returns the names of installed shortcuts.
func (s *Service) List(ctx context.Context) ([]string, error) {
	out, err := s.runner.Run(ctx, s.binary, "list")
	if err != nil {
		return nil, fmt.Errorf("list shortcuts: %w: %s", err, strings.TrimSpace(string(out)))
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Run executes a shortcut by name, optionally passing input on stdin,
// and returns its output. A non-zero exit is a capability failure.
func (s *Service) Run(ctx context.Context, name, input string) (string, error) {
	var out []byte
	var err error
	if input != "" {
		out, err = s.runner.RunWithStdin(ctx, strings.NewReader(input), s.binary, "run", name, "--input-path", "-")
	} else {
		out, err = s.runner.Run(ctx, s.binary, "run", name)
	}
	if err != nil {
		return "", fmt.Errorf("run shortcut %q: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
