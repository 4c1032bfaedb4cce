// internal/bridge/timeout.go
package bridge

import (
	"context"
	"time"
)

// WithSendTimeout bounds every outbound Send on the wrapped port. A
// non-positive duration returns the port unchanged. The event stream is
// unaffected; only the write side carries a deadline.
func WithSendTimeout(port Port, timeout time.Duration) Port {
	if timeout <= 0 {
		return port
	}
	return &timeoutPort{port: port, timeout: timeout}
}

type timeoutPort struct {
	port    Port
	timeout time.Duration
}

func (t *timeoutPort) Send(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.port.Send(ctx, req)
}

func (t *timeoutPort) Events() <-chan Event {
	return t.port.Events()
}
