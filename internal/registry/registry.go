// Package registry maps action types to the pluggable executors that know
// how to validate, price, and perform them.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/scenepipe/internal/action"
)

// ValidationResult is the outcome of an executor's pre-flight check.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// CostEstimate is an advisory price for an action, produced without
// executing it.
type CostEstimate struct {
	Estimated float64
	// Confidence is "high", "medium" or "low".
	Confidence string
}

// AssetExecutor is the pluggable backend for one asset-generating action
// type.
type AssetExecutor interface {
	// Validate performs a structural/semantic pre-check of the action. The
	// scheduler does not require it before Execute; it exists for pre-flight
	// checks and tests.
	Validate(a action.Action) ValidationResult

	// EstimateCost returns an advisory cost preview independent of actual
	// execution.
	EstimateCost(a action.Action) CostEstimate

	// Execute performs the real work and returns the produced artifact. It
	// must honor ctx cancellation for any network I/O it performs.
	Execute(ctx context.Context, a action.Action) (*action.AssetResult, error)
}

// Module is the interface a backend package implements to plug its executors
// into an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds the executors registered for a single application instance.
type Registry struct {
	executors map[action.Type]AssetExecutor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		executors: make(map[action.Type]AssetExecutor),
	}
}

// RegisterExecutor registers the executor for an action type. Registering
// the same type twice is a programmer error and panics.
func (r *Registry) RegisterExecutor(t action.Type, e AssetExecutor) {
	if _, exists := r.executors[t]; exists {
		panic(fmt.Sprintf("executor for action type '%s' already registered", t))
	}
	slog.Debug("Registering executor.", "type", t)
	r.executors[t] = e
}

// Executor looks up the executor registered for an action type.
func (r *Registry) Executor(t action.Type) (AssetExecutor, bool) {
	e, ok := r.executors[t]
	return e, ok
}

// Types returns the registered action types in lexical order.
func (r *Registry) Types() []action.Type {
	types := make([]action.Type, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
