package pipeline

import (
	"time"

	"github.com/vk/scenepipe/internal/action"
)

// ExecutionError records one failed action. ActionID is empty only for
// batch-level failures (a parse error).
type ExecutionError struct {
	ActionID string `json:"actionId,omitempty"`
	Message  string `json:"message"`
}

// ExecutionReport is the aggregate outcome of one batch. Success is true iff
// Errors is empty, and TotalCost always equals the sum of the generated
// assets' costs.
type ExecutionReport struct {
	Success         bool                 `json:"success"`
	Errors          []ExecutionError     `json:"errors"`
	AssetsGenerated []action.AssetResult `json:"assetsGenerated"`
	ActionsExecuted []string             `json:"actionsExecuted"`
	TotalCost       float64              `json:"totalCost"`
	ExecutionTime   time.Duration        `json:"executionTime"`
}

// CostCategory is the per-asset-kind slice of a cost breakdown.
type CostCategory struct {
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// CostBreakdown groups the most recent batch's generated assets by kind.
// Total equals the sum of the category costs; cutscenes contribute a count
// but cost 0 by convention.
type CostBreakdown struct {
	Images    CostCategory `json:"images"`
	Audio     CostCategory `json:"audio"`
	Cutscenes CostCategory `json:"cutscenes"`
	Total     float64      `json:"total"`
}

// ProcessorStatus is the live progress snapshot polled by a UI while a batch
// runs. Progress is the percentage of the ordered action list completed.
type ProcessorStatus struct {
	IsProcessing bool    `json:"isProcessing"`
	Progress     float64 `json:"progress"`
}

// Rule is a when_then directive retained for a downstream consumer (the game
// engine) to execute once its condition becomes true. The pipeline itself
// never evaluates conditions or recurses into the nested action.
type Rule struct {
	ID        string         `json:"id"`
	Condition string         `json:"condition"`
	Then      *action.Action `json:"then,omitempty"`
}
