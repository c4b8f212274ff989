// Package action defines the declarative action schema consumed by the
// pipeline: the tagged-union Action type, the batch envelope, and the
// AssetResult artifact produced by asset-generating actions.
package action

// Type is the discriminator tag of an Action.
type Type string

// The closed set of action types understood by the pipeline.
const (
	// Asset-generating actions. Each produces exactly one AssetResult.
	TypeImage    Type = "asset_image"
	TypeSubtitle Type = "asset_subtitle"
	TypeCutscene Type = "asset_cutscene"

	// Control actions. No executor, no asset bookkeeping; only their id is
	// recorded into the report's executed-action list.
	TypePlayCutscene Type = "play_cutscene"
	TypeWhenThen     Type = "when_then"
	TypeReason       Type = "reason"
)

// Known reports whether t is one of the closed set of action types.
func (t Type) Known() bool {
	switch t {
	case TypeImage, TypeSubtitle, TypeCutscene, TypePlayCutscene, TypeWhenThen, TypeReason:
		return true
	}
	return false
}

// GeneratesAsset reports whether actions of this type produce an AssetResult
// and therefore require a registered executor.
func (t Type) GeneratesAsset() bool {
	switch t {
	case TypeImage, TypeSubtitle, TypeCutscene:
		return true
	}
	return false
}

// Shot is one entry in a cutscene's shot list. Its ImageID and SubtitleID are
// the structural references the dependency resolver turns into graph edges.
type Shot struct {
	ImageID    string  `json:"image_id"`
	SubtitleID string  `json:"subtitle_id"`
	Duration   float64 `json:"duration,omitempty"`
	Animation  string  `json:"animation,omitempty"`
}

// Action is one declarative unit of work in a batch. It is a tagged union
// keyed by Type; only the fields relevant to the given type are populated.
type Action struct {
	ID   string `json:"id,omitempty"`
	Type Type   `json:"type"`

	// asset_image
	Prompt string `json:"prompt,omitempty"`
	Style  string `json:"style,omitempty"`

	// asset_subtitle
	Text  string `json:"text,omitempty"`
	Voice string `json:"voice,omitempty"`

	// asset_cutscene
	Shots []Shot `json:"shots,omitempty"`

	// play_cutscene
	CutsceneID string `json:"cutscene_id,omitempty"`

	// when_then: a condition string plus one nested action. The nested
	// action is registered as data for a downstream consumer; the pipeline
	// never evaluates the condition or recurses into it.
	Condition string  `json:"condition,omitempty"`
	Then      *Action `json:"then,omitempty"`

	// reason: an ephemeral planning note with no side effect.
	Note string `json:"note,omitempty"`
}

// Batch is the envelope shape every input must resolve to.
type Batch struct {
	Actions []Action `json:"actions"`
}

// Asset kind tags carried by AssetResult.Type.
const (
	AssetImage    = "image"
	AssetAudio    = "audio"
	AssetCutscene = "cutscene"
)

// AssetResult is the artifact produced by one asset-generating action.
// Cutscenes cost 0 by convention since they only reference already-paid-for
// assets.
type AssetResult struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	URL      string            `json:"url"`
	Duration float64           `json:"duration,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Cost     float64           `json:"cost"`
}
