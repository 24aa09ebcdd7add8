//go:build integration

// Package containers starts the backing services the integration suites run
// against. Each container starts on first use and is shared by every suite in
// the test binary; Ryuk removes them when the process exits.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out the shared containers.
type Manager struct {
	postgres lazy[*PostgresContainer]
	redis    lazy[*RedisContainer]
	redpanda lazy[*RedpandaContainer]
}

var manager = sync.OnceValue(func() *Manager { return &Manager{} })

func GetManager() *Manager { return manager() }

// GetPostgres returns a Postgres container with the card schema applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return m.postgres.get(t, NewPostgresContainer)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return m.redis.get(t, NewRedisContainer)
}

// GetRedpanda returns a Kafka-compatible broker with topic auto-creation on.
func (m *Manager) GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	return m.redpanda.get(t, NewRedpandaContainer)
}

// lazy starts a container once. A start that fails the test is retried by
// the next caller.
type lazy[T any] struct {
	mu      sync.Mutex
	started bool
	value   T
}

func (l *lazy[T]) get(t *testing.T, start func(*testing.T) T) T {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		l.value = start(t)
		l.started = true
	}
	return l.value
}
