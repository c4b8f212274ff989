package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/scenepipe/internal/action"
	"github.com/vk/scenepipe/internal/config"
	"github.com/vk/scenepipe/internal/registry"
	"github.com/vk/scenepipe/internal/storage/memstore"
)

// stubExecutor produces a fixed-cost asset for any action it is given.
type stubExecutor struct {
	kind string
	cost float64
}

func (s *stubExecutor) Validate(a action.Action) registry.ValidationResult {
	return registry.ValidationResult{Valid: true}
}

func (s *stubExecutor) EstimateCost(a action.Action) registry.CostEstimate {
	return registry.CostEstimate{Estimated: s.cost, Confidence: "high"}
}

func (s *stubExecutor) Execute(ctx context.Context, a action.Action) (*action.AssetResult, error) {
	return &action.AssetResult{ID: a.ID, Type: s.kind, URL: "memory://assets/" + a.ID, Cost: s.cost}, nil
}

// stubModule registers stub executors for every asset type.
type stubModule struct{}

func (stubModule) Register(r *registry.Registry) {
	r.RegisterExecutor(action.TypeImage, &stubExecutor{kind: action.AssetImage, cost: 0.05})
	r.RegisterExecutor(action.TypeSubtitle, &stubExecutor{kind: action.AssetAudio, cost: 0.02})
	r.RegisterExecutor(action.TypeCutscene, &stubExecutor{kind: action.AssetCutscene})
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_RegistersDefaultModules(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()

	a := New(&out, &cfg, memstore.New())

	for _, typ := range []action.Type{action.TypeImage, action.TypeSubtitle, action.TypeCutscene} {
		_, ok := a.Registry().Executor(typ)
		assert.True(t, ok, "default executor missing for %s", typ)
	}
}

func TestRun_ProcessesScenario(t *testing.T) {
	path := writeScenario(t, `{"actions": [
		{"id": "image_1", "type": "asset_image", "prompt": "p"},
		{"id": "subtitle_1", "type": "asset_subtitle", "text": "t"},
		{"type": "when_then", "condition": "game.started", "then": {"type": "reason"}}
	]}`)

	var out bytes.Buffer
	cfg := config.Default()
	a := New(&out, &cfg, memstore.New(), stubModule{})

	require.NoError(t, a.Run(context.Background(), path))

	assert.Contains(t, out.String(), "success: true")
	assert.Contains(t, out.String(), "actions executed: 3")
	assert.Contains(t, out.String(), "assets generated: 2")
	assert.Contains(t, out.String(), "total cost: $0.0700")
	assert.Len(t, a.Processor().PendingRules(), 1)
}

func TestRun_ReportsActionErrorsWithoutFailing(t *testing.T) {
	// No executor is registered for subtitles, so that action fails while
	// the batch still completes.
	path := writeScenario(t, `{"actions": [
		{"id": "subtitle_1", "type": "asset_subtitle", "text": "t"}
	]}`)

	var out bytes.Buffer
	cfg := config.Default()
	a := New(&out, &cfg, memstore.New(), moduleFunc(func(r *registry.Registry) {
		r.RegisterExecutor(action.TypeImage, &stubExecutor{kind: action.AssetImage})
	}))

	require.NoError(t, a.Run(context.Background(), path))
	assert.Contains(t, out.String(), "success: false")
	assert.Contains(t, out.String(), "error [subtitle_1]")
}

func TestRun_MissingScenarioFile(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	a := New(&out, &cfg, memstore.New(), stubModule{})

	err := a.Run(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

// moduleFunc adapts a function to the registry.Module interface.
type moduleFunc func(r *registry.Registry)

func (f moduleFunc) Register(r *registry.Registry) { f(r) }

func TestNewLogger(t *testing.T) {
	t.Run("json handler honors the level", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger("warn", "json", &out)

		logger.Info("hidden")
		logger.Warn("visible")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), `"msg":"visible"`)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger("loud", "text", &out)

		logger.Debug("hidden")
		logger.Info("visible")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "visible")
	})
}
