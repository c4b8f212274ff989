// Package pipeline implements the declarative action pipeline: it parses a
// batch, orders it by structural dependencies, dispatches each action to a
// registered executor, and aggregates the partial-failure report.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vk/scenepipe/internal/action"
	"github.com/vk/scenepipe/internal/ctxlog"
	"github.com/vk/scenepipe/internal/dag"
	"github.com/vk/scenepipe/internal/registry"
)

// Processor runs action batches sequentially and retains the last batch's
// aggregates for Status, CostBreakdown and PendingRules. A single Processor
// must not run two batches concurrently; callers serialize ProcessActions
// calls per instance. Status and CostBreakdown are safe to call from other
// goroutines while a batch is in flight.
type Processor struct {
	registry      *registry.Registry
	actionTimeout time.Duration

	// mu guards the snapshot fields below against concurrent pollers.
	mu         sync.Mutex
	status     ProcessorStatus
	lastAssets []action.AssetResult
	rules      []Rule
}

// Option configures a Processor.
type Option func(*Processor)

// WithActionTimeout bounds every executor Execute call with
// context.WithTimeout. Zero (the default) imposes no timeout: a hung
// executor stalls the batch, and any timeout policy belongs to the executor.
func WithActionTimeout(d time.Duration) Option {
	return func(p *Processor) { p.actionTimeout = d }
}

// New creates a Processor dispatching to the given executor registry.
func New(reg *registry.Registry, opts ...Option) *Processor {
	p := &Processor{registry: reg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessActions runs one batch end to end and returns its report. The input
// is a JSON string/[]byte or an already-decoded object resolving to
// {actions: [...]}.
//
// Only a parse failure aborts the whole batch. Execution failures are local:
// the failing action gets one ExecutionError, its dependents are skipped
// (each with its own error), and every other action still runs. Cancelling
// ctx is observed between actions; actions that never ran are recorded as
// errors and the report returns early.
func (p *Processor) ProcessActions(ctx context.Context, input any) *ExecutionReport {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	p.mu.Lock()
	p.status = ProcessorStatus{IsProcessing: true, Progress: 0}
	p.lastAssets = nil
	p.rules = nil
	p.mu.Unlock()

	report := &ExecutionReport{
		Errors:          []ExecutionError{},
		AssetsGenerated: []action.AssetResult{},
		ActionsExecuted: []string{},
	}

	finish := func(progress float64) *ExecutionReport {
		report.Success = len(report.Errors) == 0
		report.ExecutionTime = time.Since(start)
		p.mu.Lock()
		p.status = ProcessorStatus{IsProcessing: false, Progress: progress}
		p.mu.Unlock()
		logger.Info("Batch finished.",
			"success", report.Success,
			"executed", len(report.ActionsExecuted),
			"errors", len(report.Errors),
			"total_cost", report.TotalCost,
			"duration", report.ExecutionTime)
		return report
	}

	batch, err := action.Parse(ctx, input)
	if err != nil {
		logger.Error("Batch rejected by parser.", "error", err)
		report.Errors = append(report.Errors, ExecutionError{Message: err.Error()})
		return finish(0)
	}

	actions := batch.Actions
	byID := make(map[string]action.Action, len(actions))
	pos := make(map[string]int, len(actions))
	for i, a := range actions {
		byID[a.ID] = a
		pos[a.ID] = i
	}

	graph := dag.Resolve(ctx, actions)
	ordered, blocked := graph.TopoSort()
	cycleMembers := graph.CycleMembers()
	cycleSet := make(map[string]bool, len(cycleMembers))
	for _, id := range cycleMembers {
		cycleSet[id] = true
	}

	total := len(actions)
	completed := 0
	failed := make(map[string]bool)

	advance := func() {
		completed++
		p.mu.Lock()
		p.status.Progress = float64(completed) / float64(total) * 100
		p.mu.Unlock()
	}
	fail := func(id, msg string) {
		report.Errors = append(report.Errors, ExecutionError{ActionID: id, Message: msg})
		failed[id] = true
		advance()
	}

	// Actions on a dependency cycle can never be ordered; they fail up
	// front and their dependents are skipped like any other downstream of a
	// failure.
	for _, id := range cycleMembers {
		logger.Error("Action is part of a dependency cycle.", "action", id)
		fail(id, fmt.Sprintf("dependency cycle involving action '%s'", id))
	}

	canceled := false
	for _, id := range ordered {
		if !canceled && ctx.Err() != nil {
			canceled = true
			logger.Warn("Batch canceled, remaining actions will not run.", "cause", ctx.Err())
		}
		if canceled {
			fail(id, fmt.Sprintf("batch canceled before action ran: %v", ctx.Err()))
			continue
		}

		if depID := firstFailedDependency(graph, id, failed, pos); depID != "" {
			logger.Warn("Skipping action due to upstream failure.", "action", id, "dependency", depID)
			fail(id, fmt.Sprintf("skipped due to upstream failure of '%s'", depID))
			continue
		}

		a := byID[id]
		if !a.Type.GeneratesAsset() {
			p.recordControlAction(ctx, a)
			report.ActionsExecuted = append(report.ActionsExecuted, id)
			advance()
			continue
		}

		exec, ok := p.registry.Executor(a.Type)
		if !ok {
			fail(id, fmt.Sprintf("no executor registered for action type '%s'", a.Type))
			continue
		}

		res, err := p.execute(ctx, exec, a)
		if err != nil {
			logger.Error("Action execution failed.", "action", id, "error", err)
			fail(id, err.Error())
			continue
		}

		report.AssetsGenerated = append(report.AssetsGenerated, *res)
		report.ActionsExecuted = append(report.ActionsExecuted, id)
		report.TotalCost += res.Cost

		p.mu.Lock()
		p.lastAssets = append(p.lastAssets, *res)
		p.mu.Unlock()
		advance()
	}

	// Whatever TopoSort could not order and is not itself on a cycle sits
	// downstream of one; record it as skipped. All blocked nodes are marked
	// failed first so the blame lookup works regardless of input order.
	for _, id := range blocked {
		failed[id] = true
	}
	for _, id := range blocked {
		if cycleSet[id] {
			continue
		}
		depID := firstFailedDependency(graph, id, failed, pos)
		report.Errors = append(report.Errors, ExecutionError{ActionID: id, Message: fmt.Sprintf("skipped due to upstream failure of '%s'", depID)})
		advance()
	}

	return finish(100)
}

// execute runs one asset-generating action through its executor, applying
// the optional per-action timeout.
func (p *Processor) execute(ctx context.Context, exec registry.AssetExecutor, a action.Action) (*action.AssetResult, error) {
	logger := ctxlog.FromContext(ctx).With("action", a.ID, "type", a.Type)
	logger.Info("▶️ Executing action.")

	if p.actionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.actionTimeout)
		defer cancel()
	}

	res, err := exec.Execute(ctx, a)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("executor for '%s' returned no result", a.Type)
	}
	if res.Cost < 0 {
		return nil, fmt.Errorf("executor for '%s' returned negative cost %v", a.Type, res.Cost)
	}

	logger.Info("✅ Action finished.", "asset", res.ID, "cost", res.Cost)
	return res, nil
}

// recordControlAction performs the (purely in-memory) bookkeeping of a
// control action. when_then rules are retained for a downstream consumer;
// play_cutscene and reason need nothing beyond their id being recorded.
func (p *Processor) recordControlAction(ctx context.Context, a action.Action) {
	logger := ctxlog.FromContext(ctx)
	switch a.Type {
	case action.TypeWhenThen:
		logger.Info("Registering conditional rule.", "action", a.ID, "condition", a.Condition)
		p.mu.Lock()
		p.rules = append(p.rules, Rule{ID: a.ID, Condition: a.Condition, Then: a.Then})
		p.mu.Unlock()
	case action.TypePlayCutscene:
		logger.Info("Recorded cutscene playback directive.", "action", a.ID, "cutscene", a.CutsceneID)
	case action.TypeReason:
		logger.Debug("Recorded planning note.", "action", a.ID)
	}
}

// firstFailedDependency returns the id of the failed dependency of node id
// that appears earliest in the input order, or "" if all dependencies are
// healthy.
func firstFailedDependency(g *dag.Graph, id string, failed map[string]bool, pos map[string]int) string {
	deps, err := g.Dependencies(id)
	if err != nil {
		return ""
	}
	best := ""
	for _, depID := range deps {
		if !failed[depID] {
			continue
		}
		if best == "" || pos[depID] < pos[best] {
			best = depID
		}
	}
	return best
}

// Status returns a snapshot of the live batch progress. Outside of a batch
// it reports IsProcessing=false with the final progress of the previous
// batch; the counter resets at the start of the next batch.
func (p *Processor) Status() ProcessorStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// PendingRules returns the when_then rules registered by the most recent
// batch, in execution order.
func (p *Processor) PendingRules() []Rule {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}
