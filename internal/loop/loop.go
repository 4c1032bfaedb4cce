// Package loop is the single-owner control loop tying the situation store,
// the evaluation cache, and the engine boundary together.
package loop

import (
	"context"
	"fmt"
	"log"

	"github.com/solatis/tallyboard/internal/aggregate"
	"github.com/solatis/tallyboard/internal/bridge"
	"github.com/solatis/tallyboard/internal/catalog"
	"github.com/solatis/tallyboard/internal/evalcache"
	"github.com/solatis/tallyboard/internal/form"
	"github.com/solatis/tallyboard/internal/situation"
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Control loop.
 *
 * All mutable state (situation, evaluation cache, opened categories, the
 * error slot) is owned here and mutated from a single goroutine; components
 * never mutate each other's stores directly. Engine interaction is
 * asynchronous message passing, never a blocking call: the loop is idle
 * between an outbound request and the next inbound event.
 *
 * Concurrent in-flight evaluations are tolerated by design: a new
 * evaluateAll may be issued before the previous batch's responses arrive,
 * and a stale response is simply applied and then superseded (last write
 * wins per rule). There is no cancellation primitive and none is needed,
 * because evaluations are idempotent pure functions of the situation at
 * request time; the worst outcome is a briefly stale render.
 */

// Persister is the external collaborator asked to remember the current
// situation. Implemented by internal/core/db.
type Persister interface {
	SaveSituation(ctx context.Context, id types.SessionID, snapshot map[types.RuleName]types.NodeValue) error
}

// Command is a user-originated state transition.
type Command interface {
	commandKind() string
}

// Answer records one explicit answer.
type Answer struct {
	Name  types.RuleName
	Value types.NodeValue
}

func (Answer) commandKind() string { return "answer" }

// Import replaces the whole situation from a serialized file.
type Import struct {
	Data []byte
}

func (Import) commandKind() string { return "import" }

// Reset clears every answer.
type Reset struct{}

func (Reset) commandKind() string { return "reset" }

// ToggleCategory flips a breakdown category between expanded and collapsed.
type ToggleCategory struct {
	Name string
}

func (ToggleCategory) commandKind() string { return "toggle-category" }

// Loop owns the application state and dispatches commands and engine events.
type Loop struct {
	catalog *catalog.Catalog
	port    bridge.Port
	persist Persister
	session types.SessionID

	store  *situation.Store
	cache  *evalcache.Cache
	opened aggregate.OpenedCategories

	// Single error slot: last error wins, no accumulation. Non-fatal;
	// processing continues with whatever state existed before the bad
	// payload.
	currentErr error
}

// New creates a loop around a loaded catalog and an engine port. persist
// may be nil when no persistence collaborator is configured.
func New(cat *catalog.Catalog, port bridge.Port, persist Persister, session types.SessionID) *Loop {
	return &Loop{
		catalog: cat,
		port:    port,
		persist: persist,
		session: session,
		store:   situation.NewStore(),
		cache:   evalcache.NewCache(),
		opened:  make(aggregate.OpenedCategories),
	}
}

// Start issues the initial whole-graph evaluation over every known rule.
func (l *Loop) Start(ctx context.Context) error {
	return l.port.Send(ctx, bridge.EvaluateAll{Names: l.catalog.Names()})
}

// Run processes commands and engine events until ctx is cancelled or the
// event stream closes. commands may be nil for an event-only loop.
func (l *Loop) Run(ctx context.Context, commands <-chan Command) error {
	events := l.port.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			l.HandleCommand(ctx, cmd)
		case event, ok := <-events:
			if !ok {
				return nil
			}
			l.HandleEvent(ctx, event)
		}
	}
}

// HandleCommand applies one user command and executes its outbound effects.
func (l *Loop) HandleCommand(ctx context.Context, cmd Command) {
	switch c := cmd.(type) {
	case Answer:
		l.store.SetAnswer(c.Name, c.Value)
		l.publishSituation(ctx)
	case Import:
		l.handleImport(ctx, c.Data)
	case Reset:
		l.store.ReplaceAll(nil)
		l.publishSituation(ctx)
	case ToggleCategory:
		l.opened.Toggle(c.Name)
	}
}

// HandleEvent applies one inbound engine event.
func (l *Loop) HandleEvent(ctx context.Context, event bridge.Event) {
	switch e := event.(type) {
	case bridge.EvaluatedOne:
		if err := l.cache.DecodeOne(e.Name, e.Evaluation); err != nil {
			l.setError(err)
		}
	case bridge.EvaluatedMany:
		if _, err := l.cache.DecodeMany(e.Entries); err != nil {
			l.setError(err)
		}
	case bridge.SituationUpdated:
		// The engine has taken the new situation as input; ask for a full
		// recomputation. The engine decides internally what changed.
		if err := l.port.Send(ctx, bridge.EvaluateAll{Names: l.catalog.Names()}); err != nil {
			log.Printf("evaluateAll after situation update failed: %v", err)
		}
	}
}

// handleImport replaces the situation from a serialized file, rejecting the
// file (not fatally) when it does not parse as a situation mapping or names
// a rule absent from the catalog.
func (l *Loop) handleImport(ctx context.Context, data []byte) {
	parsed, err := situation.Parse(data)
	if err != nil {
		l.setError(err)
		return
	}
	if err := l.validateNames(parsed); err != nil {
		l.setError(err)
		return
	}
	l.store.ReplaceAll(parsed)
	l.publishSituation(ctx)
}

// validateNames enforces the catalog invariant: every situation key must
// correspond to a rule loaded at startup.
func (l *Loop) validateNames(parsed map[types.RuleName]types.NodeValue) error {
	for name := range parsed {
		if !l.catalog.Has(name) {
			return fmt.Errorf("%w: %w: %s", types.ErrInvalidSituation, types.ErrUnknownRule, name)
		}
	}
	return nil
}

// publishSituation runs the mandatory post-mutation effects: hand the
// snapshot to the persistence collaborator and notify the engine boundary.
func (l *Loop) publishSituation(ctx context.Context) {
	snapshot := l.store.Snapshot()

	if l.persist != nil {
		if err := l.persist.SaveSituation(ctx, l.session, snapshot); err != nil {
			// Persistence is best-effort; the in-memory situation stays
			// authoritative for this process.
			log.Printf("failed to persist situation: %v", err)
		}
	}

	if err := l.port.Send(ctx, bridge.SituationChanged{Situation: snapshot}); err != nil {
		log.Printf("situationChanged notification failed: %v", err)
	}
}

func (l *Loop) setError(err error) {
	l.currentErr = err
}

// CurrentError returns the most recent non-fatal error, or nil. Dismissed
// only by replacement.
func (l *Loop) CurrentError() error {
	return l.currentErr
}

// Loaded reports whether at least one evaluation has arrived; until then
// the UI shows a loading indicator.
func (l *Loop) Loaded() bool {
	return l.cache.Len() > 0
}

// Snapshot exports the current situation mapping.
func (l *Loop) Snapshot() map[types.RuleName]types.NodeValue {
	return l.store.Snapshot()
}

// Export serializes the exact current situation to the file format.
func (l *Loop) Export() ([]byte, error) {
	return situation.Marshal(l.store.Snapshot())
}

// Evaluation returns the cached evaluation for a rule, if authoritative.
func (l *Loop) Evaluation(name types.RuleName) (types.Evaluation, bool) {
	return l.cache.Get(name)
}

// Control resolves the form control for a question rule from the current
// stores. Unknown names resolve to an inert control.
func (l *Loop) Control(name types.RuleName) form.Control {
	rule, ok := l.catalog.Rule(name)
	if !ok {
		return form.Control{Kind: form.KindInert}
	}

	var answered *types.NodeValue
	if v, ok := l.store.Get(name); ok {
		answered = &v
	}
	control := form.Resolve(rule, answered, l.cache.Lookup(name))
	if control.Kind == form.KindChoice && control.Selected != "" {
		if p, ok := l.catalog.Possibility(name, control.Selected); ok {
			control.SelectedTitle = p.Title
		}
	}
	return control
}

// Breakdown derives the category chart data from the evaluation cache.
func (l *Loop) Breakdown() []aggregate.CategoryShare {
	return aggregate.Breakdown(l.cache, l.catalog.Index())
}

// IsOpen reports a category's expansion state (visibility only; it never
// gates recomputation).
func (l *Loop) IsOpen(category string) bool {
	return l.opened.IsOpen(category)
}
