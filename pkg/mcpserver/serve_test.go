package mcpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

func TestServer_Serve_RequestLoop(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewSendMessageTool())

	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	enc.Encode(mcpserver.JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	enc.Encode(mcpserver.JSONRPCRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	enc.Encode(mcpserver.JSONRPCRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"})
	enc.Encode(mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 3, Method: "tools/call",
		Params: map[string]any{
			"name":      "send_message",
			"arguments": map[string]any{"chat_id": "@x", "text": "hi"},
		},
	})

	var out bytes.Buffer
	if err := s.Serve(context.Background(), &in, &out); err != nil {
		t.Fatalf("serve returned error on EOF: %v", err)
	}

	// The notification produces no response: 3 responses for 4 frames.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 responses, got %d: %q", len(lines), out.String())
	}

	var last mcpserver.JSONRPCResponse
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("decode last response: %v", err)
	}
	if last.Error != nil {
		t.Fatalf("unexpected error: %v", last.Error)
	}
}

func TestServer_Serve_CancelledContext(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A blocked reader: cancellation must still shut the loop down.
	pr := blockedReader{}
	var out bytes.Buffer

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, pr, &out) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected graceful shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop on context cancellation")
	}
}

type blockedReader struct{}

func (blockedReader) Read(p []byte) (int, error) {
	select {} // never returns
}
