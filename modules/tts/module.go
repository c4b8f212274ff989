// Package tts provides the asset_subtitle executor. It wraps a
// text-to-speech HTTP API and persists the narrated clip through the asset
// store.
package tts

import (
	"context"
	"encoding/base64"
	"fmt"

	"resty.dev/v3"

	"github.com/vk/scenepipe/internal/action"
	"github.com/vk/scenepipe/internal/config"
	"github.com/vk/scenepipe/internal/ctxlog"
	"github.com/vk/scenepipe/internal/registry"
	"github.com/vk/scenepipe/internal/storage"
)

// costPerCharacter is the advisory estimate rate used before execution; the
// API response carries the authoritative cost.
const costPerCharacter = 0.000016

// Module implements the registry.Module interface for the speech backend.
type Module struct {
	cfg   config.TTS
	store storage.AssetStorage
}

// New creates the tts module for the given backend config and asset store.
func New(cfg config.TTS, store storage.AssetStorage) *Module {
	return &Module{cfg: cfg, store: store}
}

// Register registers the asset_subtitle executor with the central registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExecutor(action.TypeSubtitle, NewExecutor(m.cfg, m.store))
}

// Executor synthesizes one narrated clip per asset_subtitle action.
type Executor struct {
	cfg    config.TTS
	store  storage.AssetStorage
	client *resty.Client
}

// NewExecutor creates the executor with its own HTTP client.
func NewExecutor(cfg config.TTS, store storage.AssetStorage) *Executor {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &Executor{cfg: cfg, store: store, client: client}
}

// synthesizeRequest is the wire shape sent to the speech API.
type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// synthesizeResponse is the wire shape returned by the speech API. Cost is a
// pointer so an omitted field is distinguishable from a reported 0.
type synthesizeResponse struct {
	AudioB64 string   `json:"audio_b64"`
	Duration float64  `json:"duration"`
	Cost     *float64 `json:"cost,omitempty"`
}

// Validate checks the structural preconditions of an asset_subtitle action.
func (e *Executor) Validate(a action.Action) registry.ValidationResult {
	var errs []string
	if a.Type != action.TypeSubtitle {
		errs = append(errs, fmt.Sprintf("unexpected action type %q", a.Type))
	}
	if a.Text == "" {
		errs = append(errs, "subtitle action requires text")
	}
	return registry.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// EstimateCost prices narration by character count.
func (e *Executor) EstimateCost(a action.Action) registry.CostEstimate {
	return registry.CostEstimate{
		Estimated:  float64(len(a.Text)) * costPerCharacter,
		Confidence: "medium",
	}
}

// Execute calls the speech API, stores the produced clip and returns its
// AssetResult, including the clip duration reported by the API.
func (e *Executor) Execute(ctx context.Context, a action.Action) (*action.AssetResult, error) {
	logger := ctxlog.FromContext(ctx).With("action", a.ID)

	if v := e.Validate(a); !v.Valid {
		return nil, fmt.Errorf("invalid subtitle action '%s': %v", a.ID, v.Errors)
	}

	voice := a.Voice
	if voice == "" {
		voice = e.cfg.Voice
	}

	logger.Debug("Requesting speech synthesis.", "voice", voice, "chars", len(a.Text))
	var out synthesizeResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(synthesizeRequest{Text: a.Text, Voice: voice}).
		SetResult(&out).
		Post("/v1/audio/speech")
	if err != nil {
		return nil, fmt.Errorf("speech synthesis request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("speech API returned %s", resp.Status())
	}

	data, err := base64.StdEncoding.DecodeString(out.AudioB64)
	if err != nil {
		return nil, fmt.Errorf("speech API returned undecodable payload: %w", err)
	}

	url, err := e.store.Store(ctx, data, storage.Metadata{
		ID:          a.ID,
		Kind:        storage.KindAudio,
		ContentType: "audio/mpeg",
		Duration:    out.Duration,
		Extra:       map[string]string{"voice": voice},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store narrated clip: %w", err)
	}

	cost := float64(len(a.Text)) * costPerCharacter
	if out.Cost != nil {
		cost = *out.Cost
	}

	return &action.AssetResult{
		ID:       a.ID,
		Type:     action.AssetAudio,
		URL:      url,
		Duration: out.Duration,
		Cost:     cost,
	}, nil
}
