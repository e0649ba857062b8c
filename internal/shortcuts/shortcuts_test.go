package shortcuts_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/RobinCoderZhao/mcp-adapters/internal/shortcuts"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// fakeRunner simulates the shortcuts CLI.
type fakeRunner struct {
	installed []string
	failList  bool
	runs      []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if len(args) > 0 && args[0] == "list" {
		if f.failList {
			return []byte("shortcuts: not available"), fmt.Errorf("exit status 1")
		}
		return []byte(strings.Join(f.installed, "\n") + "\n"), nil
	}
	if len(args) > 1 && args[0] == "run" {
		f.runs = append(f.runs, args[1])
		for _, s := range f.installed {
			if s == args[1] {
				return []byte("done: " + args[1]), nil
			}
		}
		return []byte("shortcut not found"), fmt.Errorf("exit status 1")
	}
	return nil, fmt.Errorf("unexpected command %s %v", name, args)
}

func (f *fakeRunner) RunWithStdin(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	input, _ := io.ReadAll(stdin)
	out, err := f.Run(ctx, name, args...)
	if err != nil {
		return out, err
	}
	return []byte(string(out) + " input=" + string(input)), nil
}

func newServer(runner *fakeRunner) *mcpserver.Server {
	service := shortcuts.NewService(shortcuts.Config{}, runner)
	s := mcpserver.New("shortcuts-mcp", "test")
	s.SetCatalogSource(shortcuts.NewCatalogSource(service))
	return s
}

func TestDynamicCatalog(t *testing.T) {
	runner := &fakeRunner{installed: []string{"Morning Routine", "Lights Off"}}
	s := newServer(runner)

	tools := s.Registry().List(context.Background())
	if len(tools) != 3 {
		t.Fatalf("expected run_shortcut + 2 automations, got %d", len(tools))
	}
	if tools[0].Name != "run_shortcut" {
		t.Fatalf("expected run_shortcut first, got %s", tools[0].Name)
	}
	if tools[1].Name != "run_morning_routine" || tools[2].Name != "run_lights_off" {
		t.Fatalf("unexpected generated names: %s, %s", tools[1].Name, tools[2].Name)
	}

	// The external source changed: the next listing reflects it.
	runner.installed = []string{"Lights Off"}
	tools = s.Registry().List(context.Background())
	if len(tools) != 2 {
		t.Fatalf("expected catalog to shrink with the source, got %d", len(tools))
	}
}

func TestDynamicCatalog_SlugCollision(t *testing.T) {
	runner := &fakeRunner{installed: []string{"My Note", "My-Note"}}
	s := newServer(runner)

	tools := s.Registry().List(context.Background())
	if len(tools) != 3 {
		t.Fatalf("expected both colliding shortcuts listed, got %d tools", len(tools))
	}
	if tools[1].Name != "run_my_note" || tools[2].Name != "run_my_note_2" {
		t.Fatalf("unexpected disambiguation: %s, %s", tools[1].Name, tools[2].Name)
	}

	// The suffixed tool dispatches to the second shortcut, not the first.
	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{
			"name":      "run_my_note_2",
			"arguments": map[string]any{},
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if result.IsError || !strings.Contains(result.Content[0].Text, "done: My-Note") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestListFailure_EmptyCatalog(t *testing.T) {
	runner := &fakeRunner{failList: true}
	s := newServer(runner)

	tools := s.Registry().List(context.Background())
	if len(tools) != 0 {
		t.Fatalf("expected empty catalog when listing source is unreachable, got %d", len(tools))
	}
}

func TestRunShortcut(t *testing.T) {
	runner := &fakeRunner{installed: []string{"Lights Off"}}
	s := newServer(runner)

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{
			"name":      "run_lights_off",
			"arguments": map[string]any{},
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if result.IsError || !strings.Contains(result.Content[0].Text, "done: Lights Off") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunShortcut_WithInput(t *testing.T) {
	runner := &fakeRunner{installed: []string{"Echo"}}
	service := shortcuts.NewService(shortcuts.Config{}, runner)

	out, err := service.Run(context.Background(), "Echo", "hello")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "input=hello") {
		t.Fatalf("expected stdin forwarded, got %q", out)
	}
}

func TestRunShortcut_NonZeroExit(t *testing.T) {
	runner := &fakeRunner{installed: []string{"Lights Off"}}
	s := newServer(runner)

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{
			"name":      "run_shortcut",
			"arguments": map[string]any{"name": "Missing"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("non-zero exit must stay in-band: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "shortcut not found") {
		t.Fatalf("unexpected result: %+v", result)
	}
}
