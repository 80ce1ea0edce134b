// Package store implements link.Repository on several backends.
package store

import (
	"context"
	"sync"

	"github.com/serroba/puzzle-link/internal/link"
)

// MemoryStore is an in-memory implementation of link.Repository.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []*link.Record
	byHashed map[link.HashedCode]*link.Record
	byPuzzle map[link.Code]*link.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byHashed: make(map[link.HashedCode]*link.Record),
		byPuzzle: make(map[link.Code]*link.Record),
	}
}

func (m *MemoryStore) Exists(_ context.Context, hashed link.HashedCode, puzzle link.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, byHashed := m.byHashed[hashed]
	_, byPuzzle := m.byPuzzle[puzzle]

	return byHashed || byPuzzle, nil
}

// Insert appends a copy of record. Duplicate keys are not rejected; the first
// record inserted under a key keeps answering lookups for it.
func (m *MemoryStore) Insert(_ context.Context, record *link.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *record
	m.records = append(m.records, &stored)

	if _, ok := m.byHashed[stored.HashedLinkCode]; !ok {
		m.byHashed[stored.HashedLinkCode] = &stored
	}

	if _, ok := m.byPuzzle[stored.PuzzleCode]; !ok {
		m.byPuzzle[stored.PuzzleCode] = &stored
	}

	return nil
}

func (m *MemoryStore) FindByHashedLinkCode(_ context.Context, hashed link.HashedCode) (*link.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byHashed[hashed]
	if !ok {
		return nil, link.ErrNotFound
	}

	found := *record

	return &found, nil
}

func (m *MemoryStore) FindByPuzzleCode(_ context.Context, puzzle link.Code) (*link.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byPuzzle[puzzle]
	if !ok {
		return nil, link.ErrNotFound
	}

	found := *record

	return &found, nil
}

// All returns copies of every record in insertion order.
func (m *MemoryStore) All() []link.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]link.Record, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, *record)
	}

	return out
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

var _ link.Repository = (*MemoryStore)(nil)
