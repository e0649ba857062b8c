package mcpserver

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure so callers and tests can branch
// on cause rather than on error text.
type Kind int

const (
	// KindNotFound means the requested tool is not in the catalog.
	KindNotFound Kind = iota + 1
	// KindInvalidParams means the arguments violated the tool's input schema.
	KindInvalidParams
	// KindCapability means the backing capability failed after a
	// well-formed request was accepted.
	KindCapability
	// KindFatal means an unrecoverable condition (startup only).
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidParams:
		return "InvalidParams"
	case KindCapability:
		return "CapabilityFailure"
	case KindFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// rpcCode maps a failure kind to its JSON-RPC error code. Only
// protocol-shape errors (NotFound, InvalidParams) are ever surfaced
// as RPC errors; capability failures stay in-band.
func (k Kind) rpcCode() int {
	switch k {
	case KindNotFound:
		return CodeMethodNotFound
	case KindInvalidParams:
		return CodeInvalidParams
	default:
		return CodeInternalError
	}
}

// DispatchError is a tagged failure produced at the dispatch boundary.
type DispatchError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DispatchError) Unwrap() error { return e.Err }

// NotFoundError reports an unknown tool name.
func NotFoundError(name string) *DispatchError {
	return &DispatchError{Kind: KindNotFound, Message: fmt.Sprintf("tool not found: %s", name)}
}

// InvalidParamsError reports a schema violation in the arguments.
func InvalidParamsError(msg string) *DispatchError {
	return &DispatchError{Kind: KindInvalidParams, Message: msg}
}

// CapabilityError wraps a failure raised by a backing capability.
func CapabilityError(err error) *DispatchError {
	return &DispatchError{Kind: KindCapability, Message: "capability failure", Err: err}
}

// AsDispatchError unwraps err to a *DispatchError if one is present.
func AsDispatchError(err error) (*DispatchError, bool) {
	var de *DispatchError
	ok := errors.As(err, &de)
	return de, ok
}

// rpcError converts a DispatchError into a JSON-RPC error carrying the
// kind in the data field.
func (e *DispatchError) rpcError() *RPCError {
	return &RPCError{
		Code:    e.Kind.rpcCode(),
		Message: e.Error(),
		Data:    map[string]any{"kind": e.Kind.String()},
	}
}
