// Package mcpserver provides a reusable MCP (Model Context Protocol)
// tool dispatch server shared by every adapter process in this
// repository.
//
// It implements JSON-RPC 2.0 over stdio (and optionally HTTP/SSE),
// an ordered tool catalog with schema-validated dispatch, middleware
// chains, and a clean tool registration interface.
//
// Quick Start:
//
//	server := mcpserver.New("my-adapter", "1.0.0")
//	server.RegisterTool(&MyTool{})
//	server.RunStdio(ctx)
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Server is the core MCP server that owns the tool catalog and
// handles JSON-RPC requests.
type Server struct {
	name            string
	version         string
	protocolVersion string
	registry        *Registry
	sessions        map[string]time.Time
	sessionMu       sync.RWMutex
	middleware      []Middleware
	logger          *slog.Logger
}

// New creates a new MCP server with the given name and version.
func New(name, version string) *Server {
	return &Server{
		name:            name,
		version:         version,
		protocolVersion: "2024-11-05",
		registry:        NewRegistry(),
		sessions:        make(map[string]time.Time),
		logger:          slog.Default(),
	}
}

// SetLogger replaces the server's logger. Adapter processes log to
// stderr because stdout carries the protocol stream.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
	s.registry.logger = logger
}

// RegisterTool adds a tool to the catalog.
func (s *Server) RegisterTool(tool ToolHandler) {
	s.registry.Register(tool)
	s.logger.Info("registered tool", "name", tool.Name())
}

// RegisterTools adds multiple tools to the catalog.
func (s *Server) RegisterTools(tools ...ToolHandler) {
	for _, tool := range tools {
		s.RegisterTool(tool)
	}
}

// SetCatalogSource makes the catalog dynamic: every tools/list
// re-probes the source and replaces the snapshot wholesale.
func (s *Server) SetCatalogSource(src CatalogSource) {
	s.registry.SetSource(src)
}

// Registry exposes the server's catalog registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Use adds middleware to the server's processing chain.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// RunStdio serves requests over stdin/stdout until the input closes
// or ctx is cancelled (typically by a termination signal). Both paths
// are a graceful shutdown and return nil.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("starting MCP server (stdio)", "name", s.name, "version", s.version, "tools", s.registry.Len())
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve runs the request loop on an arbitrary duplex stream. One
// message per line; each request is served to completion before the
// next frame is read.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	decoder := json.NewDecoder(in)
	encoder := json.NewEncoder(out)

	type frame struct {
		req JSONRPCRequest
		err error
	}
	frames := make(chan frame)
	go func() {
		for {
			var req JSONRPCRequest
			err := decoder.Decode(&req)
			select {
			case frames <- frame{req: req, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down", "name", s.name)
			return nil
		case f := <-frames:
			if f.err != nil {
				if errors.Is(f.err, io.EOF) {
					s.logger.Info("channel closed", "name", s.name)
					return nil
				}
				return fmt.Errorf("decode request: %w", f.err)
			}

			resp := s.HandleRequest(ctx, &f.req)
			if resp == nil {
				continue // Notification, no response needed
			}
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
		}
	}
}

// HandleRequest processes a single JSON-RPC request and returns a
// response, or nil for notifications.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	handler := s.coreHandler
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler(ctx, req)
}

func (s *Server) coreHandler(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	resp := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = s.handleInitialize()
	case "notifications/initialized":
		s.logger.Info("client initialized")
		return nil
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = s.handleToolsList(ctx)
	case "tools/call":
		result, rpcErr := s.handleToolCall(ctx, req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: s.protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		SessionID: s.createSession(),
	}
}

func (s *Server) handleToolsList(ctx context.Context) *ToolsListResult {
	return &ToolsListResult{Tools: s.registry.List(ctx)}
}

// handleToolCall dispatches one invocation. Protocol-shape errors
// (unknown tool, malformed arguments) come back as RPC errors;
// capability failures are caught here and returned as IsError
// results, never propagated further.
func (s *Server) handleToolCall(ctx context.Context, params any) (*ToolCallResult, *RPCError) {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf("parse params: %v", err)}
	}

	var callParams struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(paramsBytes, &callParams); err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf("unmarshal params: %v", err)}
	}
	if callParams.Name == "" {
		return nil, InvalidParamsError("tool name is required").rpcError()
	}

	tool, ok := s.registry.Lookup(ctx, callParams.Name)
	if !ok {
		return nil, NotFoundError(callParams.Name).rpcError()
	}

	args, err := tool.Schema().Validate(callParams.Arguments)
	if err != nil {
		if de, ok := AsDispatchError(err); ok {
			return nil, de.rpcError()
		}
		return nil, InvalidParamsError(err.Error()).rpcError()
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		return ErrorResult(CapabilityError(err)), nil
	}
	if result == nil {
		result = TextResult("")
	}
	return result, nil
}

// Session management

func (s *Server) createSession() string {
	id := uuid.NewString()
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.sessions[id] = time.Now()
	return id
}

// CheckSession verifies if a session ID is valid.
func (s *Server) CheckSession(id string) bool {
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}
