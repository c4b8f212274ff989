// Package cutscene provides the asset_cutscene executor. It needs no
// external API: it resolves the asset URLs referenced by each shot from the
// store and persists the assembled manifest as a JSON document. By
// convention a cutscene costs 0, since it only references already-paid-for
// assets.
package cutscene

import (
	"context"
	"fmt"

	"github.com/vk/scenepipe/internal/action"
	"github.com/vk/scenepipe/internal/ctxlog"
	"github.com/vk/scenepipe/internal/registry"
	"github.com/vk/scenepipe/internal/storage"
)

// Module implements the registry.Module interface for the cutscene
// assembler.
type Module struct {
	store storage.AssetStorage
}

// New creates the cutscene module over the given asset store.
func New(store storage.AssetStorage) *Module {
	return &Module{store: store}
}

// Register registers the asset_cutscene executor with the central registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExecutor(action.TypeCutscene, &Executor{store: m.store})
}

// Manifest is the stored cutscene document consumed by the playback layer.
type Manifest struct {
	ID            string         `json:"id"`
	Shots         []ManifestShot `json:"shots"`
	TotalDuration float64        `json:"total_duration"`
}

// ManifestShot is one resolved shot: asset references replaced by URLs.
type ManifestShot struct {
	ImageURL  string  `json:"image_url"`
	AudioURL  string  `json:"audio_url"`
	Duration  float64 `json:"duration"`
	Animation string  `json:"animation,omitempty"`
}

// Executor assembles one manifest per asset_cutscene action.
type Executor struct {
	store storage.AssetStorage
}

// Validate checks the structural preconditions of an asset_cutscene action.
func (e *Executor) Validate(a action.Action) registry.ValidationResult {
	var errs []string
	if a.Type != action.TypeCutscene {
		errs = append(errs, fmt.Sprintf("unexpected action type %q", a.Type))
	}
	if len(a.Shots) == 0 {
		errs = append(errs, "cutscene action requires at least one shot")
	}
	for i, shot := range a.Shots {
		if shot.ImageID == "" {
			errs = append(errs, fmt.Sprintf("shot %d is missing image_id", i+1))
		}
		if shot.SubtitleID == "" {
			errs = append(errs, fmt.Sprintf("shot %d is missing subtitle_id", i+1))
		}
	}
	return registry.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// EstimateCost is always 0 for cutscenes.
func (e *Executor) EstimateCost(a action.Action) registry.CostEstimate {
	return registry.CostEstimate{Estimated: 0, Confidence: "high"}
}

// Execute resolves every shot's asset references from the store, persists
// the manifest and returns its AssetResult. A reference that is neither in
// the batch nor already stored fails the action.
func (e *Executor) Execute(ctx context.Context, a action.Action) (*action.AssetResult, error) {
	logger := ctxlog.FromContext(ctx).With("action", a.ID)

	if v := e.Validate(a); !v.Valid {
		return nil, fmt.Errorf("invalid cutscene action '%s': %v", a.ID, v.Errors)
	}

	manifest := Manifest{ID: a.ID, Shots: make([]ManifestShot, 0, len(a.Shots))}
	for _, shot := range a.Shots {
		imageURL, err := e.store.GetURL(ctx, shot.ImageID)
		if err != nil {
			return nil, fmt.Errorf("cutscene '%s' references unknown image '%s': %w", a.ID, shot.ImageID, err)
		}
		audioURL, err := e.store.GetURL(ctx, shot.SubtitleID)
		if err != nil {
			return nil, fmt.Errorf("cutscene '%s' references unknown subtitle '%s': %w", a.ID, shot.SubtitleID, err)
		}

		// An unset shot duration falls back to the narration length, so a
		// shot never outlives or truncates its audio by default.
		duration := shot.Duration
		if duration == 0 {
			duration, err = e.store.GetDuration(ctx, shot.SubtitleID)
			if err != nil {
				return nil, fmt.Errorf("cutscene '%s': failed to derive duration from '%s': %w", a.ID, shot.SubtitleID, err)
			}
		}

		manifest.Shots = append(manifest.Shots, ManifestShot{
			ImageURL:  imageURL,
			AudioURL:  audioURL,
			Duration:  duration,
			Animation: shot.Animation,
		})
		manifest.TotalDuration += duration
	}

	url, err := e.store.StoreJSON(ctx, manifest, storage.Metadata{
		ID:       a.ID,
		Kind:     storage.KindCutscene,
		Duration: manifest.TotalDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store cutscene manifest: %w", err)
	}

	logger.Debug("Cutscene manifest assembled.", "shots", len(manifest.Shots), "total_duration", manifest.TotalDuration)
	return &action.AssetResult{
		ID:       a.ID,
		Type:     action.AssetCutscene,
		URL:      url,
		Duration: manifest.TotalDuration,
		Cost:     0,
	}, nil
}
