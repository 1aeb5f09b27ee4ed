package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"atrium/config"
	"atrium/shared/failure"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Provider hands out exclusive leases keyed by room identifier. The conflict
// check and the booking write for one room must happen under one lease, so
// two concurrent requests for the same room cannot both pass the check.
// Acquire blocks for at most the configured wait budget; on expiry it returns
// a LOCK_TIMEOUT failure, which is the one retryable error kind.
type Provider interface {
	Acquire(ctx context.Context, key string) (Lease, error)
}

type Lease interface {
	Release(ctx context.Context) error
}

// releaseScript deletes the lock key only while it still holds our token, so
// a lease that outlived its TTL cannot release a successor's lock.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

type redisProvider struct {
	client *goRedis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedis(client *goRedis.Client, cfg *config.Config) Provider {
	return &redisProvider{
		client: client,
		ttl:    time.Duration(cfg.Lock.TTLSeconds) * time.Second,
		wait:   time.Duration(cfg.Lock.WaitMillis) * time.Millisecond,
		retry:  time.Duration(cfg.Lock.RetryMillis) * time.Millisecond,
	}
}

func (p *redisProvider) Acquire(ctx context.Context, key string) (Lease, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(p.wait)

	for {
		ok, err := p.client.SetNX(ctx, key, token, p.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to acquire lock")

			return nil, fmt.Errorf("failed to acquire lock %q: %w", key, err)
		}

		if ok {
			return &redisLease{client: p.client, key: key, token: token}, nil
		}

		if time.Now().After(deadline) {
			return nil, failure.LockTimeout(key) //nolint:wrapcheck
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled waiting for lock %q: %w", key, ctx.Err())
		case <-time.After(p.retry):
		}
	}
}

type redisLease struct {
	client *goRedis.Client
	key    string
	token  string
}

func (l *redisLease) Release(ctx context.Context) error {
	err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err()
	if err != nil {
		log.Error().Err(err).Str("key", l.key).Msg("failed to release lock")

		return fmt.Errorf("failed to release lock %q: %w", l.key, err)
	}

	return nil
}

// memoryProvider serializes per key within a single process. Used by tests
// and by single-node deployments that run without Redis.
type memoryProvider struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

func NewMemory(wait time.Duration) Provider {
	return &memoryProvider{
		slots: map[string]chan struct{}{},
		wait:  wait,
	}
}

func (p *memoryProvider) slot(key string) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		p.slots[key] = slot
	}

	return slot
}

func (p *memoryProvider) Acquire(ctx context.Context, key string) (Lease, error) {
	slot := p.slot(key)

	select {
	case slot <- struct{}{}:
		return &memoryLease{slot: slot}, nil
	case <-time.After(p.wait):
		return nil, failure.LockTimeout(key) //nolint:wrapcheck
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled waiting for lock %q: %w", key, ctx.Err())
	}
}

type memoryLease struct {
	slot chan struct{}
}

func (l *memoryLease) Release(_ context.Context) error {
	<-l.slot

	return nil
}
