// Package cache stores JSON documents with a TTL in Redis, or in process
// memory when Redis is not configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")
	// ErrLocked is returned by Lock when the key stays held for longer than LockWait.
	ErrLocked = errors.New("key is locked")
)

const (
	// LockTTL bounds how long a crashed holder can keep a key locked.
	LockTTL = 10 * time.Second

	// LockWait is how long Lock waits for a held key.
	LockWait = 5 * time.Second

	lockRetry  = 20 * time.Millisecond
	sweepEvery = time.Minute
)

type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Lock serializes read-modify-write cycles on key across callers. The
	// returned func releases the lock.
	Lock(ctx context.Context, key string) (unlock func(), err error)
	Ping(ctx context.Context) error
}

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "studyforge_cache_lookups_total",
	Help: "Cache lookups by key namespace and result.",
}, []string{"namespace", "result"})

// Observe counts the outcome of a Get under namespace.
func Observe(namespace string, err error) {
	switch {
	case err == nil:
		lookups.WithLabelValues(namespace, "hit").Inc()
	case errors.Is(err, ErrMiss):
		lookups.WithLabelValues(namespace, "miss").Inc()
	default:
		lookups.WithLabelValues(namespace, "error").Inc()
	}
}

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string, dst interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// unlockScript deletes the lock only while it still holds our token, so a
// holder that outlived LockTTL cannot release someone else's lock.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, LockWait)
	defer cancel()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, lockKey, token, LockTTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("cache lock %s: %w", key, err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := unlockScript.Run(releaseCtx, r.client, []string{lockKey}, token).Err(); err != nil {
					log.Printf("cache unlock %s: %v", key, err)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLocked
		case <-ticker.C:
		}
	}
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// keyLock is a one-slot semaphore shared by everyone waiting on a key.
type keyLock struct {
	slot chan struct{}
	refs int
}

// Memory is the single-process fallback. Values are stored JSON-encoded so
// callers see the same copy semantics as with Redis. Expired entries are swept
// on Set at most once a minute.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]entry
	locks     map[string]*keyLock
	lastSweep time.Time
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), locks: make(map[string]*keyLock), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dst interface{}) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(e.data, dst)
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.sweepLocked()
	m.mu.Unlock()
	return nil
}

// sweepLocked drops expired entries. m.mu must be held.
func (m *Memory) sweepLocked() {
	now := m.now()
	if now.Sub(m.lastSweep) < sweepEvery {
		return
	}
	m.lastSweep = now
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// Len reports how many entries are resident, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{slot: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	timer := time.NewTimer(LockWait)
	defer timer.Stop()

	select {
	case l.slot <- struct{}{}:
		return func() {
			<-l.slot
			m.releaseLock(key, l)
		}, nil
	case <-ctx.Done():
		m.releaseLock(key, l)
		return nil, ctx.Err()
	case <-timer.C:
		m.releaseLock(key, l)
		return nil, ErrLocked
	}
}

func (m *Memory) releaseLock(key string, l *keyLock) {
	m.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}
