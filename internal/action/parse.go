package action

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/scenepipe/internal/ctxlog"
)

// ParseError marks a malformed or ill-shaped batch. It is the only error
// class that aborts an entire batch: the pipeline short-circuits before any
// executor is invoked.
type ParseError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Err }

// rawBatch distinguishes a missing "actions" key from an empty list.
type rawBatch struct {
	Actions *[]Action `json:"actions"`
}

// Parse turns raw batch input into a typed action list. It accepts a
// JSON-encoded string or []byte, an already-decoded map, or a Batch value.
// On success every returned action has a non-empty id: actions whose payload
// omits one (typical for control actions) get a deterministic synthetic id
// of the form "<type>_<n>" where n is the 1-based position in the input
// array.
func Parse(ctx context.Context, input any) (*Batch, error) {
	logger := ctxlog.FromContext(ctx)

	var raw []byte
	switch v := input.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	case Batch:
		return normalize(ctx, v.Actions)
	case *Batch:
		if v == nil {
			return nil, &ParseError{Message: "nil batch"}
		}
		return normalize(ctx, v.Actions)
	case map[string]any:
		// Re-encode through JSON so object input shares the decode path
		// (and its shape checks) with string input.
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, &ParseError{Message: "unencodable batch object", Err: err}
		}
		raw = encoded
	default:
		return nil, &ParseError{Message: fmt.Sprintf("unsupported input type %T", input)}
	}

	var rb rawBatch
	if err := json.Unmarshal(raw, &rb); err != nil {
		return nil, &ParseError{Message: "malformed batch JSON", Err: err}
	}
	if rb.Actions == nil {
		return nil, &ParseError{Message: `batch is missing the "actions" field`}
	}

	logger.Debug("Batch decoded.", "action_count", len(*rb.Actions))
	return normalize(ctx, *rb.Actions)
}

// normalize validates the minimal shape of each action and synthesizes
// missing ids. It copies the input slice so callers keep ownership of theirs.
func normalize(ctx context.Context, in []Action) (*Batch, error) {
	logger := ctxlog.FromContext(ctx)

	actions := make([]Action, len(in))
	copy(actions, in)

	seen := make(map[string]int, len(actions))
	for i := range actions {
		a := &actions[i]
		if !a.Type.Known() {
			return nil, &ParseError{Message: fmt.Sprintf("action %d has unknown type %q", i+1, a.Type)}
		}
		if a.Then != nil && !a.Then.Type.Known() {
			return nil, &ParseError{Message: fmt.Sprintf("action %d has nested action of unknown type %q", i+1, a.Then.Type)}
		}
		if a.ID == "" {
			a.ID = fmt.Sprintf("%s_%d", a.Type, i+1)
			logger.Debug("Synthesized action id.", "id", a.ID)
		}
		// Ids key the dependency graph and the report; a collision (explicit
		// or with a synthesized id) would silently drop an action.
		if first, dup := seen[a.ID]; dup {
			return nil, &ParseError{Message: fmt.Sprintf("duplicate action id %q (actions %d and %d)", a.ID, first+1, i+1)}
		}
		seen[a.ID] = i
	}

	return &Batch{Actions: actions}, nil
}
