package pipeline

import "github.com/vk/scenepipe/internal/action"

// CostBreakdown groups the most recent batch's generated assets by kind,
// each with a count and accumulated cost. It reflects assets as they land,
// so polling it during a batch shows the running spend.
func (p *Processor) CostBreakdown() CostBreakdown {
	p.mu.Lock()
	assets := make([]action.AssetResult, len(p.lastAssets))
	copy(assets, p.lastAssets)
	p.mu.Unlock()

	var b CostBreakdown
	for _, a := range assets {
		switch a.Type {
		case action.AssetImage:
			b.Images.Count++
			b.Images.Cost += a.Cost
		case action.AssetAudio:
			b.Audio.Count++
			b.Audio.Cost += a.Cost
		case action.AssetCutscene:
			b.Cutscenes.Count++
			b.Cutscenes.Cost += a.Cost
		}
	}
	b.Total = b.Images.Cost + b.Audio.Cost + b.Cutscenes.Cost
	return b
}
