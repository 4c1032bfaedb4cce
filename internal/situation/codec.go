// internal/situation/codec.go
package situation

import (
	"encoding/json"
	"fmt"

	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Import/export file format.
 *
 * A single JSON object mapping rule names directly to tagged node values,
 * no wrapper metadata or versioning:
 *
 *   {"transport . voiture . km": {"type":"number","number":12000}}
 *
 * Marshal and Parse obey the round-trip law: for any situation S,
 * Parse(Marshal(S)) equals S (same keys, same tagged values). A file that
 * fails to parse as this shape is an invalid situation, a recoverable
 * user-level error rather than a fatal one.
 */

// Marshal serializes a situation snapshot to the persistence file format.
func Marshal(snapshot map[types.RuleName]types.NodeValue) ([]byte, error) {
	out := make(map[string]types.NodeValue, len(snapshot))
	for name, value := range snapshot {
		out[string(name)] = value
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize situation: %w", err)
	}
	return data, nil
}

// Parse decodes a situation file. Malformed JSON or any value not matching
// the tagged NodeValue shape rejects the whole file with ErrInvalidSituation;
// the caller keeps its prior state.
func Parse(data []byte) (map[types.RuleName]types.NodeValue, error) {
	var wire map[string]types.NodeValue
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidSituation, err)
	}

	out := make(map[types.RuleName]types.NodeValue, len(wire))
	for name, value := range wire {
		out[types.RuleName(name)] = value
	}
	return out, nil
}
