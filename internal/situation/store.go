// Package situation holds the user-supplied answers overriding engine
// defaults, keyed by rule name.
package situation

import (
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Situation store.
 *
 * Absence of a key means "no explicit answer, use the engine's default".
 * Mutations are single upsert (answer change) or bulk replace (import,
 * reset); an import is never partially merged with prior state. The store
 * performs no value-shape validation against the rule's declared type;
 * internal/form decides what value to construct.
 *
 * The store is owned exclusively by the control loop (internal/loop) and
 * therefore carries no locking of its own.
 */

// Store maps rule names to user-supplied values.
type Store struct {
	answers map[types.RuleName]types.NodeValue
}

// NewStore creates an empty situation.
func NewStore() *Store {
	return &Store{answers: make(map[types.RuleName]types.NodeValue)}
}

// SetAnswer upserts one answer. Publishing the resulting snapshot to the
// engine boundary and the persistence collaborator is the caller's job.
func (s *Store) SetAnswer(name types.RuleName, value types.NodeValue) {
	s.answers[name] = value
}

// ReplaceAll discards the entire prior situation, keeping a private copy of
// the replacement. Used by import and by reset (with an empty map).
func (s *Store) ReplaceAll(situation map[types.RuleName]types.NodeValue) {
	next := make(map[types.RuleName]types.NodeValue, len(situation))
	for name, value := range situation {
		next[name] = value
	}
	s.answers = next
}

// Get returns the explicit answer for a rule, if any.
func (s *Store) Get(name types.RuleName) (types.NodeValue, bool) {
	v, ok := s.answers[name]
	return v, ok
}

// Snapshot returns a copy of the current mapping for serialization or
// outbound notification. Feeding a parsed serialization of the snapshot
// back through ReplaceAll reproduces an equal mapping.
func (s *Store) Snapshot() map[types.RuleName]types.NodeValue {
	out := make(map[types.RuleName]types.NodeValue, len(s.answers))
	for name, value := range s.answers {
		out[name] = value
	}
	return out
}

// Len returns the number of explicit answers.
func (s *Store) Len() int {
	return len(s.answers)
}
