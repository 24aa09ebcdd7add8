// Package sync holds locking helpers beyond the standard library's.
package sync

import (
	"hash/maphash"
	"sync"
)

const shardCount = 32

// ShardedMutex serializes work per key without one global lock. Different
// keys may share a shard, so a caller must never hold two keys at once.
type ShardedMutex struct {
	seed   maphash.Seed
	shards [shardCount]sync.Mutex
}

func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{seed: maphash.MakeSeed()}
}

// Lock locks key's shard and returns the matching unlock:
//
//	defer m.Lock(key)()
func (m *ShardedMutex) Lock(key string) (unlock func()) {
	mu := &m.shards[m.shardFor(key)]
	mu.Lock()
	return mu.Unlock
}

func (m *ShardedMutex) shardFor(key string) int {
	return int(maphash.String(m.seed, key) % shardCount)
}
