// Package persistence implements the snapshot persistence adapter: a
// schema-versioned JSON codec over a key-value repository, with load and
// save failures swallowed so the in-memory state stays authoritative.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"cafechain/internal/core/domain"
)

// SchemaVersion is the current snapshot envelope version
const SchemaVersion = 1

// envelope is the stored form of a snapshot
type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	State         json.RawMessage `json:"state"`
}

// legacyState is an untagged snapshot from before envelopes existed. It
// stored cafeStatus alongside user.
type legacyState struct {
	domain.State
	CafeStatus domain.CafeStatus `json:"cafeStatus"`
}

// Encode wraps the state in a versioned envelope
func Encode(state domain.State, savedAt time.Time) ([]byte, error) {
	body, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(envelope{
		SchemaVersion: SchemaVersion,
		SavedAt:       savedAt.UTC(),
		State:         body,
	})
}

// Decode reads a stored snapshot, upgrading untagged legacy blobs and
// rejecting versions it does not know.
func Decode(raw []byte) (*domain.State, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if _, tagged := probe["schemaVersion"]; !tagged {
		return decodeLegacy(raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnsupportedSchema, env.SchemaVersion)
	}

	var state domain.State
	if err := json.Unmarshal(env.State, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

// decodeLegacy upgrades a version 0 blob: the separately stored cafeStatus
// is folded into user.status, which is now the only source of truth.
func decodeLegacy(raw []byte) (*domain.State, error) {
	var legacy legacyState
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy snapshot: %w", err)
	}
	state := legacy.State
	if state.User != nil && state.User.Status == "" && legacy.CafeStatus != "" {
		state.User.Status = legacy.CafeStatus
	}
	return &state, nil
}
