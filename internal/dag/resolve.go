package dag

import (
	"context"

	"github.com/vk/scenepipe/internal/action"
	"github.com/vk/scenepipe/internal/ctxlog"
)

// Resolve builds the dependency graph for a parsed action batch. Every
// action becomes a node; every structural reference from a cutscene shot
// (image_id, subtitle_id) to an id produced by another action in the same
// batch becomes a producer -> consumer edge. References to ids not present
// in the batch are not edges: the referenced asset is assumed to already
// exist in storage and is not validated here. Multiple cutscenes may
// reference the same asset id (fan-out).
func Resolve(ctx context.Context, actions []action.Action) *Graph {
	logger := ctxlog.FromContext(ctx)
	graph := New()

	// First pass: create all nodes, preserving input order.
	for _, a := range actions {
		graph.AddNode(a.ID)
	}

	// Second pass: link structural references.
	edges := 0
	for _, a := range actions {
		if a.Type != action.TypeCutscene {
			continue
		}
		for _, shot := range a.Shots {
			for _, ref := range []string{shot.ImageID, shot.SubtitleID} {
				if ref == "" || !graph.Contains(ref) {
					continue
				}
				if err := graph.AddEdge(ref, a.ID); err != nil {
					// Only a self-reference can fail here; it carries no
					// ordering information, so drop it.
					logger.Warn("Ignoring unusable shot reference.", "action", a.ID, "ref", ref, "error", err)
					continue
				}
				edges++
			}
		}
	}

	logger.Debug("Dependency resolution complete.", "nodes", graph.Len(), "edges", edges)
	return graph
}
