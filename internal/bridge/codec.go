// internal/bridge/codec.go
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/solatis/tallyboard/internal/evalcache"
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Wire codec.
 *
 * Every message travels as a self-describing JSON envelope tagged by kind:
 *
 *   {"kind":"evaluateAll","names":["bilan","transport"]}
 *   {"kind":"situationChanged","situation":{...}}
 *   {"kind":"evaluatedOne","name":"bilan","evaluation":{...}}
 *   {"kind":"evaluatedMany","entries":[{"name":...,"evaluation":{...}}]}
 *   {"kind":"situationUpdated"}
 *
 * Evaluation payloads are carried as raw JSON; shape validation belongs to
 * the evaluation cache so that a bad entry surfaces as a decode error
 * without blocking its batch.
 */

const (
	kindEvaluateAll      = "evaluateAll"
	kindSituationChanged = "situationChanged"
	kindEvaluatedOne     = "evaluatedOne"
	kindEvaluatedMany    = "evaluatedMany"
	kindSituationUpdated = "situationUpdated"
)

type envelope struct {
	Kind       string                             `json:"kind"`
	Names      []types.RuleName                   `json:"names,omitempty"`
	Situation  map[types.RuleName]types.NodeValue `json:"situation,omitempty"`
	Name       types.RuleName                     `json:"name,omitempty"`
	Evaluation json.RawMessage                    `json:"evaluation,omitempty"`
	Entries    []entryJSON                        `json:"entries,omitempty"`
}

type entryJSON struct {
	Name       types.RuleName  `json:"name"`
	Evaluation json.RawMessage `json:"evaluation"`
}

// EncodeRequest serializes an outbound request envelope.
func EncodeRequest(req Request) ([]byte, error) {
	env := envelope{Kind: req.requestKind()}
	switch r := req.(type) {
	case EvaluateAll:
		env.Names = r.Names
	case SituationChanged:
		// An empty situation (reset) must serialize as {} rather than be
		// omitted, so the engine sees the cleared state.
		if r.Situation == nil {
			env.Situation = map[types.RuleName]types.NodeValue{}
		} else {
			env.Situation = r.Situation
		}
	default:
		return nil, fmt.Errorf("%w: unsupported request %T", types.ErrDecodeMessage, req)
	}
	return json.Marshal(env)
}

// DecodeRequest parses an outbound envelope; used by engine-side drivers
// and tests.
func DecodeRequest(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecodeMessage, err)
	}
	switch env.Kind {
	case kindEvaluateAll:
		return EvaluateAll{Names: env.Names}, nil
	case kindSituationChanged:
		situation := env.Situation
		if situation == nil {
			situation = map[types.RuleName]types.NodeValue{}
		}
		return SituationChanged{Situation: situation}, nil
	default:
		return nil, fmt.Errorf("%w: unknown request kind %q", types.ErrDecodeMessage, env.Kind)
	}
}

// EncodeEvent serializes an inbound event envelope; used by engine-side
// drivers and tests.
func EncodeEvent(event Event) ([]byte, error) {
	env := envelope{Kind: event.eventKind()}
	switch e := event.(type) {
	case EvaluatedOne:
		env.Name = e.Name
		env.Evaluation = e.Evaluation
	case EvaluatedMany:
		for _, entry := range e.Entries {
			env.Entries = append(env.Entries, entryJSON(entry))
		}
	case SituationUpdated:
	default:
		return nil, fmt.Errorf("%w: unsupported event %T", types.ErrDecodeMessage, event)
	}
	return json.Marshal(env)
}

// DecodeEvent parses an inbound envelope into a typed event.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecodeMessage, err)
	}
	switch env.Kind {
	case kindEvaluatedOne:
		if env.Name == "" {
			return nil, fmt.Errorf("%w: evaluatedOne without rule name", types.ErrDecodeMessage)
		}
		return EvaluatedOne{Name: env.Name, Evaluation: env.Evaluation}, nil
	case kindEvaluatedMany:
		event := EvaluatedMany{}
		for _, entry := range env.Entries {
			event.Entries = append(event.Entries, evalcache.RawEntry(entry))
		}
		return event, nil
	case kindSituationUpdated:
		return SituationUpdated{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", types.ErrDecodeMessage, env.Kind)
	}
}
