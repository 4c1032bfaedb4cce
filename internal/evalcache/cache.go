// Package evalcache holds the latest engine-computed evaluation per rule.
package evalcache

import (
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Evaluation cache.
 *
 * Entries are replaced wholesale whenever a fresh evaluation arrives for a
 * key: last write wins, across both the single and the batch channel. This
 * is the safety net for out-of-order arrival; a stale in-flight evaluation
 * that resolves after a newer situation change is applied and then
 * superseded by the next recomputation, never merged.
 *
 * An evaluation is authoritative only after the engine has responded at
 * least once for that rule; until then Get reports absence and presentation
 * logic must treat the rule as unevaluated, not as a default value.
 *
 * Owned exclusively by the control loop; no locking.
 */

// Entry pairs a rule name with its evaluation, for batch application.
type Entry struct {
	Name       types.RuleName
	Evaluation types.Evaluation
}

// Cache maps rule names to their latest evaluation.
type Cache struct {
	entries map[types.RuleName]types.Evaluation
}

// NewCache creates an empty evaluation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[types.RuleName]types.Evaluation)}
}

// ApplyOne overwrites the entry for one rule.
func (c *Cache) ApplyOne(name types.RuleName, eval types.Evaluation) {
	c.entries[name] = eval
}

// ApplyMany applies entries in order. A batch models a whole-graph
// recomputation result: order between distinct keys is irrelevant, but if
// the same key appears twice the last occurrence wins.
func (c *Cache) ApplyMany(entries []Entry) {
	for _, e := range entries {
		c.ApplyOne(e.Name, e.Evaluation)
	}
}

// Get returns the evaluation for a rule. ok is false until the engine has
// responded at least once for that rule.
func (c *Cache) Get(name types.RuleName) (types.Evaluation, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Lookup returns a pointer to the evaluation, or nil when absent. Convenience
// for the form resolver which takes optional evaluations.
func (c *Cache) Lookup(name types.RuleName) *types.Evaluation {
	if e, ok := c.entries[name]; ok {
		return &e
	}
	return nil
}

// Len returns the number of rules the engine has responded for.
func (c *Cache) Len() int {
	return len(c.entries)
}
