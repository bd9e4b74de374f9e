// Package service implements the client side of the synchronized
// request/response channel to the privileged capture helper process.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/logging/events"
)

// Kind enumerates the fixed, closed set of request/response message kinds
// the helper understands. A response carrying a different kind than the
// request is a protocol error.
type Kind string

const (
	KindStart     Kind = "start"
	KindSourcePID Kind = "source-pid"
	KindBounds    Kind = "bounds"
)

// session is one live connection to the helper. call performs a synchronous
// request and returns the response kind with its value; close tears the
// transport down.
type session interface {
	call(ctx context.Context, kind Kind, window uint64) (Kind, int64, error)
	close()
}

// Channel is the shared connection holder. The session is created lazily on
// first use, invalidated on any failure, and recreated on the next call. A
// single mutex serializes creation, the one-at-a-time synchronous sends, and
// teardown.
type Channel struct {
	mu   sync.Mutex
	sess session
	dial func() (session, error)
}

var (
	sharedOnce sync.Once
	shared     *Channel
)

// Shared returns the process-wide channel, created lazily on first use.
func Shared() *Channel {
	sharedOnce.Do(func() {
		shared = &Channel{dial: dialBus}
	})
	return shared
}

// NewChannel builds a channel with a custom dialer. Used by tests.
func NewChannel(dial func() (session, error)) *Channel {
	if dial == nil {
		dial = dialBus
	}
	return &Channel{dial: dial}
}

// ChannelAt builds a channel dialing the given bus address. An empty address
// behaves like Shared but without the process-wide singleton.
func ChannelAt(address string) *Channel {
	return &Channel{dial: func() (session, error) { return dialBusAt(address) }}
}

// Start asks the helper to begin serving. Any failure or mismatched
// response is logged and swallowed: the caller proceeds optimistically and
// individual requests will surface their own failures.
func (c *Channel) Start(ctx context.Context) {
	if _, ok := c.send(ctx, KindStart, 0); !ok {
		logging.Errorf("capture helper: start unacknowledged, continuing anyway")
	}
}

// SourcePID resolves the process id owning the given window. Absent on any
// failure or protocol mismatch; never an error.
func (c *Channel) SourcePID(ctx context.Context, window uint64) (int, bool) {
	value, ok := c.send(ctx, KindSourcePID, window)
	if !ok {
		return 0, false
	}
	return int(value), true
}

// WindowBounds asks the helper for a window's packed bounds value. Absent on
// failure.
func (c *Channel) WindowBounds(ctx context.Context, window uint64) (int64, bool) {
	return c.send(ctx, KindBounds, window)
}

// send performs one synchronous request under the session lock. Errors and
// mismatches invalidate the session so the next send reconnects.
func (c *Channel) send(ctx context.Context, kind Kind, window uint64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil {
		sess, err := c.dial()
		if err != nil {
			logging.Errorf("capture helper: connect: %v", err)
			return 0, false
		}
		c.sess = sess
	}

	events.Channel.Send(string(kind))
	respKind, value, err := c.sess.call(ctx, kind, window)
	if err != nil {
		logging.Errorf("capture helper: %s: %v", kind, err)
		c.invalidateLocked()
		return 0, false
	}
	if respKind != kind {
		events.Channel.Mismatch(string(kind), string(respKind))
		logging.Error(fmt.Errorf("capture helper: sent %q, received %q", kind, respKind))
		c.invalidateLocked()
		return 0, false
	}
	return value, true
}

// Invalidate drops the cached session so the next send reconnects. Safe to
// call repeatedly and from a teardown path.
func (c *Channel) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

func (c *Channel) invalidateLocked() {
	if c.sess == nil {
		return
	}
	c.sess.close()
	c.sess = nil
	events.Channel.Invalidate()
}
