// internal/core/db/situations.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solatis/tallyboard/internal/situation"
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Situation persistence.
 *
 * The host is asked to remember the current situation after every mutation;
 * this store keeps one row per session holding the serialized mapping in
 * the same JSON format as the import/export file, so a persisted situation
 * can be re-imported verbatim. Writes are upserts: the latest snapshot
 * fully replaces the previous one, mirroring the store's no-merge policy.
 */

// SituationStore persists situation snapshots keyed by session.
// Implements the control loop's Persister interface.
type SituationStore struct {
	queries *Queries
}

// NewSituationStore wires the store over loaded named queries.
func NewSituationStore(queries *Queries) (*SituationStore, error) {
	if queries == nil {
		return nil, fmt.Errorf("queries cannot be nil")
	}
	return &SituationStore{queries: queries}, nil
}

// SaveSituation upserts the serialized snapshot for a session.
func (s *SituationStore) SaveSituation(ctx context.Context, id types.SessionID, snapshot map[types.RuleName]types.NodeValue) error {
	data, err := situation.Marshal(snapshot)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.queries.Exec("save-situation", string(id), string(data), now); err != nil {
		return fmt.Errorf("failed to save situation: %w", err)
	}
	return nil
}

// LoadSituation returns the persisted mapping for a session. found is false
// when the session has never been saved.
func (s *SituationStore) LoadSituation(ctx context.Context, id types.SessionID) (snapshot map[types.RuleName]types.NodeValue, found bool, err error) {
	var data string
	err = s.queries.Get("load-situation", &data, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load situation: %w", err)
	}

	snapshot, err = situation.Parse([]byte(data))
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

// DeleteSituation removes a session's persisted snapshot.
func (s *SituationStore) DeleteSituation(ctx context.Context, id types.SessionID) error {
	if _, err := s.queries.Exec("delete-situation", string(id)); err != nil {
		return fmt.Errorf("failed to delete situation: %w", err)
	}
	return nil
}
