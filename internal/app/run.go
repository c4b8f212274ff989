package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/scenepipe/internal/ctxlog"
)

// Run loads the scenario file at scenarioPath and processes it as one batch,
// printing a human-readable summary to the app's output writer. The returned
// error covers I/O problems only; a batch with failed actions is reported,
// not returned as an error.
func (a *App) Run(ctx context.Context, scenarioPath string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "scenario", scenarioPath)

	if a.cfg.StatusPort > 0 {
		a.startStatusServer(a.cfg.StatusPort)
	}

	raw, err := os.ReadFile(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}

	a.logger.Info("🚀 Starting batch execution.", "scenario", scenarioPath)
	report := a.processor.ProcessActions(ctx, raw)
	a.logger.Info("🏁 Batch execution finished.")

	fmt.Fprintf(a.outW, "success: %v\n", report.Success)
	fmt.Fprintf(a.outW, "actions executed: %d\n", len(report.ActionsExecuted))
	fmt.Fprintf(a.outW, "assets generated: %d\n", len(report.AssetsGenerated))
	fmt.Fprintf(a.outW, "total cost: $%.4f\n", report.TotalCost)
	fmt.Fprintf(a.outW, "execution time: %dms\n", report.ExecutionTime.Milliseconds())
	for _, e := range report.Errors {
		if e.ActionID != "" {
			fmt.Fprintf(a.outW, "error [%s]: %s\n", e.ActionID, e.Message)
		} else {
			fmt.Fprintf(a.outW, "error: %s\n", e.Message)
		}
	}

	breakdown := a.processor.CostBreakdown()
	fmt.Fprintf(a.outW, "cost breakdown: images %d ($%.4f), audio %d ($%.4f), cutscenes %d, total $%.4f\n",
		breakdown.Images.Count, breakdown.Images.Cost,
		breakdown.Audio.Count, breakdown.Audio.Cost,
		breakdown.Cutscenes.Count, breakdown.Total)

	a.logger.Debug("App.Run method finished.")
	return nil
}
