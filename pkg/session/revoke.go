package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker records token IDs ended by logout.
type Revoker interface {
	// Revoke marks id as ended until the given time.
	Revoke(ctx context.Context, id string, until time.Time) error
	// IsRevoked reports whether id was revoked and the entry is still live.
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// MemoryRevoker keeps revocations in process memory.
// Entries are lost on restart and are not shared between replicas.
type MemoryRevoker struct {
	entries map[string]time.Time
	now     func() time.Time
	mu      sync.Mutex
}

// NewMemoryRevoker creates an empty in-memory revocation list.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.entries {
		if !now.Before(exp) {
			delete(m.entries, k)
		}
	}
	if now.Before(until) {
		m.entries[id] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.entries[id]
	return ok && m.now().Before(until), nil
}

// DefaultRedisPrefix namespaces revocation keys.
const DefaultRedisPrefix = "mailroom:session:revoked:"

// RedisRevoker stores revocations as expiring Redis keys so that every
// replica sees a logout.
type RedisRevoker struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRevoker creates a revoker on client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisRevoker(client redis.UniversalClient, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRevoker{client: client, prefix: prefix}
}

func (r *RedisRevoker) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+id, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
