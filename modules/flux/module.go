// Package flux provides the asset_image executor. It wraps a Flux-style
// image-generation HTTP API and persists the returned image through the
// asset store.
package flux

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

// Module implements the registry.Module interface. It's the entrypoint for
// the flux backend, responsible for registering its executor with the
// application's registry.
type Module struct {
	cfg   config.Flux
	store storage.AssetStorage
}

// New creates the flux module for the given backend config and asset store.
func New(cfg config.Flux, store storage.AssetStorage) *Module {
	return &Module{cfg: cfg, store: store}
}

// Register registers the asset_image executor with the central registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExecutor(action.TypeImage, NewExecutor(m.cfg, m.store))
}

// Executor generates one image per asset_image action.
type Executor struct {
	cfg    config.Flux
	store  storage.AssetStorage
	client *resty.Client
}

// NewExecutor creates the executor with its own HTTP client.
func NewExecutor(cfg config.Flux, store storage.AssetStorage) *Executor {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &Executor{cfg: cfg, store: store, client: client}
}

// generateRequest is the wire shape sent to the image API.
type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
}

// generateResponse is the wire shape returned by the image API. Cost is a
// pointer so an omitted field is distinguishable from a reported 0.
type generateResponse struct {
	ImageB64 string   `json:"image_b64"`
	Cost     *float64 `json:"cost,omitempty"`
}

// Validate checks the structural preconditions of an asset_image action.
func (e *Executor) Validate(a action.Action) registry.ValidationResult {
	var errs []string
	if a.Type != action.TypeImage {
		errs = append(errs, fmt.Sprintf("unexpected action type %q", a.Type))
	}
	if a.Prompt == "" {
		errs = append(errs, "image action requires a prompt")
	}
	return registry.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// EstimateCost prices one image at the configured flat rate.
func (e *Executor) EstimateCost(a action.Action) registry.CostEstimate {
	return registry.CostEstimate{Estimated: e.cfg.ImageCost, Confidence: "high"}
}

// Execute calls the generation API, stores the produced image and returns
// its AssetResult. The reported cost comes from the API response when
// present, falling back to the configured flat rate.
func (e *Executor) Execute(ctx context.Context, a action.Action) (*action.AssetResult, error) {
	logger := ctxlog.FromContext(ctx).With("action", a.ID)

	if v := e.Validate(a); !v.Valid {
		return nil, fmt.Errorf("invalid image action '%s': %v", a.ID, v.Errors)
	}

	logger.Debug("Requesting image generation.", "style", a.Style)
	var out generateResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(generateRequest{Prompt: a.Prompt, Style: a.Style}).
		SetResult(&out).
		Post("/v1/images/generate")
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("image API returned %s", resp.Status())
	}

	data, err := base64.StdEncoding.DecodeString(out.ImageB64)
	if err != nil {
		return nil, fmt.Errorf("image API returned undecodable payload: %w", err)
	}

	url, err := e.store.Store(ctx, data, storage.Metadata{
		ID:          a.ID,
		Kind:        storage.KindImage,
		ContentType: "image/png",
		Extra:       map[string]string{"prompt": a.Prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store generated image: %w", err)
	}

	cost := e.cfg.ImageCost
	if out.Cost != nil {
		cost = *out.Cost
	}

	return &action.AssetResult{
		ID:   a.ID,
		Type: action.AssetImage,
		URL:  url,
		Cost: cost,
	}, nil
}
