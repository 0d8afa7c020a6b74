package storage

import (
	"context"
	"sync"
)

// Memory is the in-memory Store. It is safe for concurrent use and is
// also the deterministic fake used throughout the tests.
type Memory struct {
	mu      sync.RWMutex
	scalars map[string]string
	hashes  map[string]map[string]string
	sets    map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		scalars: map[string]string{},
		hashes:  map[string]map[string]string{},
		sets:    map[string]map[string]struct{}{},
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.scalars[key]
	if !ok {
		return "", ErrKeyNotFound
	}

	return value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scalars[key] = value

	return nil
}

func (m *Memory) HGet(_ context.Context, key, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.hashes[key][field]
	if !ok {
		return "", ErrKeyNotFound
	}

	return value, nil
}

func (m *Memory) HSet(_ context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash, ok := m.hashes[key]
	if !ok {
		hash = map[string]string{}
		m.hashes[key] = hash
	}
	hash[field] = value

	return nil
}

func (m *Memory) HDel(_ context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := m.hashes[key]
	for _, field := range fields {
		delete(hash, field)
	}
	if len(hash) == 0 {
		delete(m.hashes, key)
	}

	return nil
}

func (m *Memory) HVals(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values := make([]string, 0, len(m.hashes[key]))
	for _, value := range m.hashes[key] {
		values = append(values, value)
	}

	return values, nil
}

func (m *Memory) HLen(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.hashes[key])), nil
}

func (m *Memory) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		set = map[string]struct{}{}
		m.sets[key] = set
	}
	set[member] = struct{}{}

	return nil
}

func (m *Memory) SRem(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := m.sets[key]
	delete(set, member)
	if len(set) == 0 {
		delete(m.sets, key)
	}

	return nil
}

func (m *Memory) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}

	return members, nil
}

func (m *Memory) SCard(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.sets[key])), nil
}

// snapshot and restore are used by the file backend.

type memorySnapshot struct {
	Scalars map[string]string            `json:"scalars"`
	Hashes  map[string]map[string]string `json:"hashes"`
	Sets    map[string][]string          `json:"sets"`
}

func (m *Memory) snapshot() memorySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := memorySnapshot{
		Scalars: map[string]string{},
		Hashes:  map[string]map[string]string{},
		Sets:    map[string][]string{},
	}
	for key, value := range m.scalars {
		snap.Scalars[key] = value
	}
	for key, hash := range m.hashes {
		copied := map[string]string{}
		for field, value := range hash {
			copied[field] = value
		}
		snap.Hashes[key] = copied
	}
	for key, set := range m.sets {
		members := make([]string, 0, len(set))
		for member := range set {
			members = append(members, member)
		}
		snap.Sets[key] = members
	}

	return snap
}

func (m *Memory) restore(snap memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scalars = map[string]string{}
	m.hashes = map[string]map[string]string{}
	m.sets = map[string]map[string]struct{}{}

	for key, value := range snap.Scalars {
		m.scalars[key] = value
	}
	for key, hash := range snap.Hashes {
		copied := map[string]string{}
		for field, value := range hash {
			copied[field] = value
		}
		m.hashes[key] = copied
	}
	for key, members := range snap.Sets {
		set := map[string]struct{}{}
		for _, member := range members {
			set[member] = struct{}{}
		}
		m.sets[key] = set
	}
}
