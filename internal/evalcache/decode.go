// internal/evalcache/decode.go
package evalcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Inbound payload decoding.
 *
 * A payload that cannot be decoded into the Evaluation shape is never
 * applied: the cache keeps its prior entry and the decode error is surfaced
 * to the caller's error slot. Within a batch, one bad entry must not block
 * the valid ones; errors are joined and reported after the batch applies.
 */

// RawEntry pairs a rule name with its undecoded evaluation payload, as
// delivered by the engine boundary.
type RawEntry struct {
	Name       types.RuleName
	Evaluation json.RawMessage
}

// DecodeOne decodes a raw evaluation payload and applies it. On decode
// failure the cache is untouched and ErrDecodeEvaluation is returned.
func (c *Cache) DecodeOne(name types.RuleName, raw json.RawMessage) error {
	eval, err := decodeEvaluation(name, raw)
	if err != nil {
		return err
	}
	c.ApplyOne(name, eval)
	return nil
}

// DecodeMany decodes and applies a batch in order. Bad entries are skipped,
// good ones still apply; the returned error joins one ErrDecodeEvaluation
// per skipped entry. applied counts the entries that took effect.
func (c *Cache) DecodeMany(entries []RawEntry) (applied int, err error) {
	var errs []error
	for _, e := range entries {
		eval, decodeErr := decodeEvaluation(e.Name, e.Evaluation)
		if decodeErr != nil {
			errs = append(errs, decodeErr)
			continue
		}
		c.ApplyOne(e.Name, eval)
		applied++
	}
	return applied, errors.Join(errs...)
}

// decodeEvaluation parses one EvaluationJSON payload.
func decodeEvaluation(name types.RuleName, raw json.RawMessage) (types.Evaluation, error) {
	// json.Unmarshal leaves the target untouched on a literal null, which
	// would apply a zero Evaluation the engine never produced.
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return types.Evaluation{}, fmt.Errorf("%w: %s: empty payload", types.ErrDecodeEvaluation, name)
	}
	var eval types.Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return types.Evaluation{}, fmt.Errorf("%w: %s: %v", types.ErrDecodeEvaluation, name, err)
	}
	return eval, nil
}
