package dispatch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coder47007/Campus-Match-App-sub001/internal/dispatch"
	"github.com/coder47007/Campus-Match-App-sub001/internal/presence"
)

type fakeConn struct {
	mu     sync.Mutex
	events []string
	err    error
	panics bool
}

func (f *fakeConn) PushEvent(event string, payload interface{}) error {
	if f.panics {
		panic("connection gone")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func newDispatcher() (*dispatch.Dispatcher, *presence.LocalRegistry) {
	registry := presence.NewLocalRegistry(nil, "test")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return dispatch.New(registry, log), registry
}

func TestNotifyMatchDeliversWhenOnline(t *testing.T) {
	d, registry := newDispatcher()

	conn := &fakeConn{}
	registry.Register(context.Background(), 7, conn)

	d.NotifyMatch(7, dispatch.MatchSummary{MatchID: "m1", OtherPartyID: 8})

	require.Len(t, conn.events, 1)
	assert.Equal(t, dispatch.EventNewMatch, conn.events[0])
}

func TestNotifyOfflineIsDropped(t *testing.T) {
	d, _ := newDispatcher()

	// no connection registered; must not panic or block
	d.NotifyMatch(7, dispatch.MatchSummary{MatchID: "m1"})
	d.NotifyMessage(7, dispatch.MessageSummary{MatchID: "m1"})
}

// TestPushFailureSwallowed: a failing connection never surfaces to the
// caller.
func TestPushFailureSwallowed(t *testing.T) {
	d, registry := newDispatcher()

	conn := &fakeConn{err: errors.New("broken pipe")}
	registry.Register(context.Background(), 7, conn)

	d.NotifyMessage(7, dispatch.MessageSummary{MatchID: "m1", Body: "hello"})
}

// TestPushPanicContained: a panicking connection handle must not take down
// the caller.
func TestPushPanicContained(t *testing.T) {
	d, registry := newDispatcher()

	registry.Register(context.Background(), 7, &fakeConn{panics: true})

	assert.NotPanics(t, func() {
		d.NotifyMessagesRead(7, dispatch.ReceiptSummary{MatchID: "m1", MessageIDs: []uint64{1}})
	})
}

func TestUnregisterStopsDelivery(t *testing.T) {
	d, registry := newDispatcher()

	conn := &fakeConn{}
	registry.Register(context.Background(), 7, conn)
	registry.Unregister(context.Background(), 7)

	d.NotifyMatch(7, dispatch.MatchSummary{MatchID: "m1"})
	assert.Empty(t, conn.events)
}
