package cutscene

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/scenepipe/internal/action"
	"github.com/vk/scenepipe/internal/registry"
	"github.com/vk/scenepipe/internal/storage"
	"github.com/vk/scenepipe/internal/storage/memstore"
)

// seedAsset stores a placeholder object and returns its URL.
func seedAsset(t *testing.T, store *memstore.Store, id, kind string, duration float64) string {
	t.Helper()
	url, err := store.Store(context.Background(), []byte(id), storage.Metadata{
		ID:       id,
		Kind:     kind,
		Duration: duration,
	})
	require.NoError(t, err)
	return url
}

func TestExecute_AssemblesManifest(t *testing.T) {
	store := memstore.New()
	imgURL := seedAsset(t, store, "image_1", storage.KindImage, 0)
	audioURL := seedAsset(t, store, "subtitle_1", storage.KindAudio, 3.5)

	exec := &Executor{store: store}
	a := action.Action{
		ID:   "cutscene_1",
		Type: action.TypeCutscene,
		Shots: []action.Shot{
			{ImageID: "image_1", SubtitleID: "subtitle_1", Duration: 5, Animation: "zoom_in"},
			{ImageID: "image_1", SubtitleID: "subtitle_1"}, // duration falls back to narration length
		},
	}

	res, err := exec.Execute(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, "cutscene_1", res.ID)
	assert.Equal(t, action.AssetCutscene, res.Type)
	assert.Zero(t, res.Cost)
	assert.Equal(t, 8.5, res.Duration)

	data, meta, err := store.Retrieve(context.Background(), "cutscene_1")
	require.NoError(t, err)
	assert.Equal(t, storage.KindCutscene, meta.Kind)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))

	want := Manifest{
		ID: "cutscene_1",
		Shots: []ManifestShot{
			{ImageURL: imgURL, AudioURL: audioURL, Duration: 5, Animation: "zoom_in"},
			{ImageURL: imgURL, AudioURL: audioURL, Duration: 3.5},
		},
		TotalDuration: 8.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_MissingReferenceFails(t *testing.T) {
	store := memstore.New()
	seedAsset(t, store, "image_1", storage.KindImage, 0)

	exec := &Executor{store: store}
	a := action.Action{
		ID:   "cutscene_1",
		Type: action.TypeCutscene,
		Shots: []action.Shot{
			{ImageID: "image_1", SubtitleID: "never_generated"},
		},
	}

	_, err := exec.Execute(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never_generated")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, store.Exists(context.Background(), "cutscene_1"))
}

func TestValidate(t *testing.T) {
	exec := &Executor{store: memstore.New()}

	t.Run("valid action", func(t *testing.T) {
		v := exec.Validate(action.Action{
			ID:    "c",
			Type:  action.TypeCutscene,
			Shots: []action.Shot{{ImageID: "i", SubtitleID: "s"}},
		})
		assert.True(t, v.Valid)
		assert.Empty(t, v.Errors)
	})

	t.Run("no shots", func(t *testing.T) {
		v := exec.Validate(action.Action{ID: "c", Type: action.TypeCutscene})
		assert.False(t, v.Valid)
		assert.Contains(t, v.Errors, "cutscene action requires at least one shot")
	})

	t.Run("incomplete shot", func(t *testing.T) {
		v := exec.Validate(action.Action{
			ID:    "c",
			Type:  action.TypeCutscene,
			Shots: []action.Shot{{ImageID: "", SubtitleID: ""}},
		})
		assert.False(t, v.Valid)
		assert.Len(t, v.Errors, 2)
	})

	t.Run("wrong type", func(t *testing.T) {
		v := exec.Validate(action.Action{ID: "c", Type: action.TypeImage, Shots: []action.Shot{{ImageID: "i", SubtitleID: "s"}}})
		assert.False(t, v.Valid)
	})
}

func TestEstimateCost(t *testing.T) {
	exec := &Executor{store: memstore.New()}
	est := exec.EstimateCost(action.Action{ID: "c", Type: action.TypeCutscene})
	assert.Zero(t, est.Estimated)
	assert.Equal(t, "high", est.Confidence)
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	New(memstore.New()).Register(r)

	_, ok := r.Executor(action.TypeCutscene)
	assert.True(t, ok)
}
