package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownFunction is returned when a call names an unregistered function
var ErrUnknownFunction = errors.New("unknown function")

// FunctionCall is the request envelope for one function invocation
type FunctionCall struct {
	FunctionName string          `json:"function_name"`
	Parameters   json.RawMessage `json:"parameters"`
	RequestID    string          `json:"request_id"`
	Auth         *Auth           `json:"auth,omitempty"`
}

// Response is the result envelope returned for every call
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id"`
}

// Handler executes one registered function
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Registry maps function names to handlers and authenticates calls
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	auth     *Authenticator
	logger   *zap.Logger
}

// NewRegistry creates an empty function registry. A nil authenticator
// disables authentication.
func NewRegistry(auth *Authenticator, logger *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		auth:     auth,
		logger:   logger,
	}
}

// Register adds a named function. Registering the same name twice replaces
// the previous handler.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Functions returns the registered function names, sorted
func (r *Registry) Functions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute authenticates and dispatches one function call. Errors are folded
// into the response envelope; Execute itself never fails.
func (r *Registry) Execute(ctx context.Context, call *FunctionCall) *Response {
	if r.auth != nil {
		if err := r.auth.Verify(call.Auth); err != nil {
			r.logger.Warn("Authentication failed",
				zap.String("function", call.FunctionName),
				zap.String("request_id", call.RequestID),
				zap.Error(err))
			return &Response{
				Success:   false,
				Error:     err.Error(),
				RequestID: call.RequestID,
			}
		}
	}

	r.mu.RLock()
	handler, ok := r.handlers[call.FunctionName]
	r.mu.RUnlock()

	if !ok {
		return &Response{
			Success:   false,
			Error:     fmt.Sprintf("%s: %s", ErrUnknownFunction, call.FunctionName),
			RequestID: call.RequestID,
		}
	}

	data, err := handler(ctx, call.Parameters)
	if err != nil {
		r.logger.Error("Function call failed",
			zap.String("function", call.FunctionName),
			zap.String("request_id", call.RequestID),
			zap.Error(err))
		return &Response{
			Success:   false,
			Error:     err.Error(),
			RequestID: call.RequestID,
		}
	}

	return &Response{
		Success:   true,
		Data:      data,
		RequestID: call.RequestID,
	}
}
