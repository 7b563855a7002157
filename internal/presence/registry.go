// Package presence maps a student identity to zero-or-one live push
// connection. The in-process map serves connections held by this instance;
// Redis presence marks make online status visible across horizontally
// scaled instances.
package presence

import (
	"context"
	"sync"

	"github.com/coder47007/Campus-Match-App-sub001/internal/cache"
)

// Connection is a live push-delivery handle. PushEvent is synchronous and
// best-effort from the caller's perspective.
type Connection interface {
	PushEvent(event string, payload interface{}) error
}

// Registry maps a student to their live connection, if any.
type Registry interface {
	Lookup(studentID uint64) (Connection, bool)
	Register(ctx context.Context, studentID uint64, conn Connection)
	Unregister(ctx context.Context, studentID uint64)
}

// LocalRegistry is the single-instance implementation: a mutex-guarded map,
// mirrored to Redis so other instances can observe online status.
type LocalRegistry struct {
	mu         sync.RWMutex
	conns      map[uint64]Connection
	cache      *cache.RedisCache
	instanceID string
}

func NewLocalRegistry(c *cache.RedisCache, instanceID string) *LocalRegistry {
	return &LocalRegistry{
		conns:      make(map[uint64]Connection),
		cache:      c,
		instanceID: instanceID,
	}
}

func (r *LocalRegistry) Lookup(studentID uint64) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[studentID]
	return conn, ok
}

// Register replaces any previous connection for the student. Presence
// marking is best-effort; a Redis hiccup must not break the connection
// itself.
func (r *LocalRegistry) Register(ctx context.Context, studentID uint64, conn Connection) {
	r.mu.Lock()
	r.conns[studentID] = conn
	r.mu.Unlock()

	if r.cache != nil {
		_ = r.cache.MarkOnline(ctx, studentID, r.instanceID)
	}
}

func (r *LocalRegistry) Unregister(ctx context.Context, studentID uint64) {
	r.mu.Lock()
	delete(r.conns, studentID)
	r.mu.Unlock()

	if r.cache != nil {
		_ = r.cache.MarkOffline(ctx, studentID)
	}
}
