package mcpserver

import (
	"context"
	"log/slog"
	"sync"
)

// CatalogSource supplies the tool set for domains whose catalog is
// driven by an external directory (e.g. re-listing available device
// automations). Tools is called on every listing; the returned set
// replaces the previous snapshot wholesale.
type CatalogSource interface {
	Tools(ctx context.Context) ([]ToolHandler, error)
}

// Registry owns the tool catalog: an ordered, name-unique collection
// of tools. Static registries are populated once at startup via
// Register; dynamic ones refresh from a CatalogSource. Readers always
// observe a complete snapshot, never a partial one.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]ToolHandler
	source CatalogSource
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]ToolHandler),
		logger: slog.Default(),
	}
}

// Register adds a tool, preserving registration order. Registering a
// name twice replaces the earlier entry in place.
func (r *Registry) Register(tool ToolHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// SetSource makes the registry dynamic: every List re-probes the
// source and replaces the snapshot wholesale.
func (r *Registry) SetSource(src CatalogSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = src
}

// List returns the full catalog in order. For dynamic registries a
// failed refresh yields an empty catalog rather than an error; the
// last good snapshot is kept for dispatch.
func (r *Registry) List(ctx context.Context) []ToolDef {
	if r.hasSource() {
		if err := r.refresh(ctx); err != nil {
			r.logger.Warn("catalog refresh failed", "error", err)
			return []ToolDef{}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ToolDef, 0, len(r.order))
	for _, name := range r.order {
		h := r.tools[name]
		defs = append(defs, ToolDef{
			Name:        h.Name(),
			Description: h.Description(),
			InputSchema: h.Schema().JSON(),
		})
	}
	return defs
}

// Lookup finds a tool by name. Dynamic registries consult the latest
// snapshot; a failed refresh falls back to the last good one.
func (r *Registry) Lookup(ctx context.Context, name string) (ToolHandler, bool) {
	if r.hasSource() {
		if err := r.refresh(ctx); err != nil {
			r.logger.Warn("catalog refresh failed, using last snapshot", "error", err)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.tools[name]
	return h, ok
}

// Len returns the number of tools currently in the snapshot.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) hasSource() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source != nil
}

func (r *Registry) refresh(ctx context.Context) error {
	r.mu.RLock()
	src := r.source
	r.mu.RUnlock()

	handlers, err := src.Tools(ctx)
	if err != nil {
		return err
	}

	order := make([]string, 0, len(handlers))
	tools := make(map[string]ToolHandler, len(handlers))
	for _, h := range handlers {
		if _, exists := tools[h.Name()]; exists {
			continue
		}
		order = append(order, h.Name())
		tools[h.Name()] = h
	}

	r.mu.Lock()
	r.order = order
	r.tools = tools
	r.mu.Unlock()
	return nil
}
