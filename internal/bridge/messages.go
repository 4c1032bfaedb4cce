// Package bridge is the asynchronous message boundary to the external
// rule-evaluation engine.
package bridge

import (
	"context"
	"encoding/json"

	"github.com/solatis/tallyboard/internal/evalcache"
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Engine boundary protocol.
 *
 * Fire-and-forget in both directions, no request/response correlation ids.
 * Outbound: evaluateAll (startup and after each situation change) and
 * situationChanged (after each situation mutation). Inbound: evaluatedOne,
 * evaluatedMany (both funnel into the evaluation cache, last write wins),
 * and situationUpdated (the engine's acknowledgment that triggers a fresh
 * evaluateAll).
 *
 * Arrival order between evaluatedOne and evaluatedMany is not guaranteed.
 * Responses are neither ordered nor 1:1 with requests; the engine decides
 * internally what to recompute and when.
 */

// Request is an outbound message to the engine.
type Request interface {
	requestKind() string
}

// EvaluateAll asks the engine to recompute every named rule. Issued once at
// startup with all known names, and again after every situation change.
type EvaluateAll struct {
	Names []types.RuleName
}

func (EvaluateAll) requestKind() string { return kindEvaluateAll }

// SituationChanged publishes the full situation snapshot. The engine uses
// it as input for its next recomputation and acknowledges with a
// SituationUpdated event.
type SituationChanged struct {
	Situation map[types.RuleName]types.NodeValue
}

func (SituationChanged) requestKind() string { return kindSituationChanged }

// Event is an inbound message from the engine.
type Event interface {
	eventKind() string
}

// EvaluatedOne delivers a single recomputed evaluation. The payload stays
// raw until the evaluation cache decodes it, so one malformed message never
// poisons anything else.
type EvaluatedOne struct {
	Name       types.RuleName
	Evaluation json.RawMessage
}

func (EvaluatedOne) eventKind() string { return kindEvaluatedOne }

// EvaluatedMany delivers a whole-graph recomputation as an unordered batch.
type EvaluatedMany struct {
	Entries []evalcache.RawEntry
}

func (EvaluatedMany) eventKind() string { return kindEvaluatedMany }

// SituationUpdated acknowledges a SituationChanged; the control loop reacts
// by issuing a fresh EvaluateAll.
type SituationUpdated struct{}

func (SituationUpdated) eventKind() string { return kindSituationUpdated }

// Port is the engine boundary as seen by the control loop: a write side for
// requests and a read side for events. Implemented by the in-process Pair
// and by the Redis Streams transport.
type Port interface {
	// Send dispatches an outbound request. Fire-and-forget: a nil error
	// means accepted for delivery, not processed.
	Send(ctx context.Context, req Request) error

	// Events is the inbound event stream. Closed when the transport stops.
	Events() <-chan Event
}
