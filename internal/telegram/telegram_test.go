package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RobinCoderZhao/mcp-adapters/internal/telegram"
	"github.com/RobinCoderZhao/mcp-adapters/pkg/mcpserver"
)

// fakeBotAPI serves a minimal subset of the Telegram Bot API.
// lastSend holds the payload of the most recent sendMessage call.
func fakeBotAPI(t *testing.T) (api *httptest.Server, calls *int, lastSend *map[string]any) {
	t.Helper()
	calls = new(int)
	lastSend = new(map[string]any)
	mux := http.NewServeMux()
	mux.HandleFunc("/bottest-token/getMe", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"id": 42, "is_bot": true, "username": "testbot"},
		})
	})
	mux.HandleFunc("/bottest-token/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		*lastSend = payload
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": map[string]any{
				"message_id": 1001,
				"chat":       map[string]any{"id": 7, "type": "channel"},
				"text":       payload["text"],
				"date":       1700000000,
			},
		})
	})
	mux.HandleFunc("/bottest-token/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": []any{map[string]any{"update_id": 5}},
		})
	})
	return httptest.NewServer(mux), calls, lastSend
}

func newServer(t *testing.T, client *telegram.Client) *mcpserver.Server {
	t.Helper()
	s := mcpserver.New("telegram-mcp", "test")
	s.RegisterTools(telegram.Tools(client)...)
	return s
}

func call(t *testing.T, s *mcpserver.Server, name string, args map[string]any) *mcpserver.JSONRPCResponse {
	t.Helper()
	return s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: map[string]any{"name": name, "arguments": args},
	})
}

func TestSendMessage(t *testing.T) {
	api, _, _ := fakeBotAPI(t)
	defer api.Close()
	client := telegram.NewClient(telegram.Config{BotToken: "test-token", BaseURL: api.URL})
	s := newServer(t, client)

	resp := call(t, s, "send_message", map[string]any{"chat_id": "@x", "text": "hi"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if result.IsError {
		t.Fatalf("expected success, got %+v", result)
	}
	if !strings.Contains(result.Content[0].Text, "@x") {
		t.Fatalf("expected confirmation referencing @x, got %s", result.Content[0].Text)
	}
}

func TestSendMessage_DefaultParseMode(t *testing.T) {
	api, _, lastSend := fakeBotAPI(t)
	defer api.Close()
	client := telegram.NewClient(telegram.Config{BotToken: "test-token", BaseURL: api.URL})
	s := newServer(t, client)

	// The advertised default must reach the API when the caller omits it.
	resp := call(t, s, "send_message", map[string]any{"chat_id": "@x", "text": "hi"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if got := (*lastSend)["parse_mode"]; got != "MarkdownV2" {
		t.Fatalf("expected default parse_mode MarkdownV2, got %v", got)
	}

	// An explicit value wins over the default.
	call(t, s, "send_message", map[string]any{"chat_id": "@x", "text": "<b>hi</b>", "parse_mode": "HTML"})
	if got := (*lastSend)["parse_mode"]; got != "HTML" {
		t.Fatalf("expected explicit parse_mode HTML, got %v", got)
	}
}

func TestSendMessage_MissingChatID(t *testing.T) {
	api, calls, _ := fakeBotAPI(t)
	defer api.Close()
	client := telegram.NewClient(telegram.Config{BotToken: "test-token", BaseURL: api.URL})
	s := newServer(t, client)

	resp := call(t, s, "send_message", map[string]any{"text": "hi"})
	if resp.Error == nil || resp.Error.Code != mcpserver.CodeInvalidParams {
		t.Fatalf("expected InvalidParams, got %+v", resp.Error)
	}
	if *calls != 0 {
		t.Fatalf("no external call may happen on validation failure, got %d", *calls)
	}
}

func TestSendMessage_APIFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "Too Many Requests"})
	}))
	defer api.Close()
	client := telegram.NewClient(telegram.Config{BotToken: "test-token", BaseURL: api.URL})
	s := newServer(t, client)

	resp := call(t, s, "send_message", map[string]any{"chat_id": "@x", "text": "hi"})
	if resp.Error != nil {
		t.Fatalf("capability failure must stay in-band: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if !result.IsError {
		t.Fatal("expected IsError result")
	}
	if !strings.Contains(result.Content[0].Text, "Too Many Requests") {
		t.Fatalf("expected cause in text, got %s", result.Content[0].Text)
	}
}

func TestGetUpdates_DefaultLimit(t *testing.T) {
	api, _, _ := fakeBotAPI(t)
	defer api.Close()
	client := telegram.NewClient(telegram.Config{BotToken: "test-token", BaseURL: api.URL})
	s := newServer(t, client)

	resp := call(t, s, "get_updates", map[string]any{})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(*mcpserver.ToolCallResult)
	if result.IsError {
		t.Fatalf("expected success, got %+v", result)
	}
}

func TestGetMe_Handshake(t *testing.T) {
	api, _, _ := fakeBotAPI(t)
	defer api.Close()
	client := telegram.NewClient(telegram.Config{BotToken: "test-token", BaseURL: api.URL})

	user, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	if user.Username != "testbot" {
		t.Fatalf("expected testbot, got %s", user.Username)
	}
}
