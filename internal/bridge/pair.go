// internal/bridge/pair.go
package bridge

import (
	"context"
	"fmt"
)

/*
 * In-process transport: two unidirectional buffered channels. The core
 * writes requests and reads events; an engine driver (or a test) does the
 * reverse. Mirrors the production transport's fire-and-forget semantics,
 * including the possibility of events arriving out of request order.
 */

// Pair is an in-process engine boundary.
type Pair struct {
	requests chan Request
	events   chan Event
}

// NewPair creates a channel pair with the given buffer size per direction.
func NewPair(buffer int) *Pair {
	if buffer < 1 {
		buffer = 1
	}
	return &Pair{
		requests: make(chan Request, buffer),
		events:   make(chan Event, buffer),
	}
}

// Send queues an outbound request. Blocks only when the buffer is full;
// ctx cancellation aborts the wait.
func (p *Pair) Send(ctx context.Context, req Request) error {
	select {
	case p.requests <- req:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("request not sent: %w", ctx.Err())
	}
}

// Events returns the inbound event stream read by the control loop.
func (p *Pair) Events() <-chan Event {
	return p.events
}

// Requests returns the outbound request stream, read by the engine driver.
func (p *Pair) Requests() <-chan Request {
	return p.requests
}

// Emit injects an inbound event, called by the engine driver.
func (p *Pair) Emit(ctx context.Context, event Event) error {
	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event not emitted: %w", ctx.Err())
	}
}

// Close closes the event stream, stopping the control loop's read side.
// The driver must not Emit afterwards.
func (p *Pair) Close() {
	close(p.events)
}
