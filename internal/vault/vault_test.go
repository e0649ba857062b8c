package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RobinCoderZhao/mcp-adapters/internal/vault"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

func newVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "inbox.md"), []byte("# Inbox\n- call Bob\n"), 0o644)
	os.MkdirAll(filepath.Join(root, "projects"), 0o755)
	os.WriteFile(filepath.Join(root, "projects", "go.md"), []byte("# Go\nlearn generics\n"), 0o644)
	os.MkdirAll(filepath.Join(root, ".obsidian"), 0o755)
	os.WriteFile(filepath.Join(root, ".obsidian", "workspace.md"), []byte("internal"), 0o644)
	os.WriteFile(filepath.Join(root, "scratch.txt"), []byte("not a note"), 0o644)

	v, err := vault.New(vault.Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestNew_MissingRoot(t *testing.T) {
	if _, err := vault.New(vault.Config{Root: "/nonexistent/vault"}); err == nil {
		t.Fatal("expected error for missing root")
	}
	if _, err := vault.New(vault.Config{}); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestReadWrite(t *testing.T) {
	v := newVault(t)

	if err := v.Write("daily/2024-01-01.md", "# Daily\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	content, err := v.Read("daily/2024-01-01.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if content != "# Daily\n" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestTraversalRejected(t *testing.T) {
	v := newVault(t)

	for _, path := range []string{"../escape.md", "a/../../escape.md", "/etc/passwd"} {
		if _, err := v.Read(path); err == nil {
			t.Fatalf("expected rejection for %s", path)
		}
		if err := v.Write(path, "x"); err == nil {
			t.Fatalf("expected write rejection for %s", path)
		}
	}
}

func TestList(t *testing.T) {
	v := newVault(t)

	notes, err := v.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d: %+v", len(notes), notes)
	}
	// Sorted by path; hidden folders and non-markdown files excluded.
	if notes[0].Path != "inbox.md" || notes[1].Path != filepath.Join("projects", "go.md") {
		t.Fatalf("unexpected listing: %+v", notes)
	}
}

func TestSearch(t *testing.T) {
	v := newVault(t)

	matches, err := v.Search("GENERICS", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Line != 2 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	if !strings.Contains(matches[0].Text, "generics") {
		t.Fatalf("unexpected match text: %q", matches[0].Text)
	}
}

func TestTools_Dispatch(t *testing.T) {
	v := newVault(t)
	s := mcpserver.New("vault-mcp", "test")
	s.RegisterTools(vault.Tools(v)...)

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{
			"name":      "read_note",
			"arguments": map[string]any{"path": "missing.md"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("missing note is a capability failure, not an RPC error: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if !result.IsError {
		t.Fatal("expected IsError for missing note")
	}

	resp = s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 2, Method: "tools/call",
		Params: map[string]any{
			"name":      "write_note",
			"arguments": map[string]any{"path": "new.md", "content": "hello"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if resp.Result.(*mcpserver.ToolCallResult).IsError {
		t.Fatal("expected write to succeed")
	}
	if content, _ := v.Read("new.md"); content != "hello" {
		t.Fatalf("note not written, got %q", content)
	}
}
