// internal/types/rules.go
package types

/*
 * Static rule metadata and engine evaluation results.
 *
 * RawRule is supplied once at startup and immutable for the process
 * lifetime; internal/catalog owns loading and indexing. Evaluation is the
 * engine's computed result for one rule at a point in time; entries are
 * replaced wholesale on every update (last write wins per rule), never
 * merged field by field.
 */

// Possibility is one allowed string answer for a rule declaring a fixed
// enumeration, with its human-readable title.
type Possibility struct {
	Value string
	Title string
}

// RawRule is the static per-rule metadata. Category membership is derived
// from the name's namespace prefix, not stored.
type RawRule struct {
	Name          RuleName
	Title         string
	Unit          string
	Description   string
	Question      string
	Possibilities []Possibility
}

// HasPossibilities reports whether the rule declares a one-of enumeration.
func (r RawRule) HasPossibilities() bool {
	return len(r.Possibilities) > 0
}

// Evaluation is the engine's latest computed result for one rule.
type Evaluation struct {
	// NodeValue is the computed value, possibly Empty when the engine
	// could not produce one.
	NodeValue NodeValue `json:"nodeValue"`

	// MissingVariables lists upstream rules the engine could not resolve,
	// in engine order. Non-empty implies a degraded result.
	MissingVariables []RuleName `json:"missingVariables"`

	// IsNullable signals that answering this rule is currently optional or
	// inapplicable; its input control must be disabled.
	IsNullable bool `json:"isNullable"`
}
