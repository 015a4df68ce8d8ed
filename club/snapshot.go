// File: club/snapshot.go
package club

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotSlot is the default name under which the snapshot is stored.
const SnapshotSlot = "badmintonApp"

// ErrEmptySnapshot is returned when there is nothing to decode.
var ErrEmptySnapshot = errors.New("empty snapshot")

// MarshalSnapshot serializes the whole state, current user included.
func MarshalSnapshot(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot restores a state written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return State{}, ErrEmptySnapshot
	}
	var s State
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return State{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}

// DecodeOrSeed restores a snapshot, falling back to the seed dataset when the
// data is absent or malformed. The returned error explains a fallback.
func DecodeOrSeed(data []byte) (State, error) {
	s, err := UnmarshalSnapshot(data)
	if err != nil {
		return Seed(), err
	}
	return s, nil
}
