package store

import (
	"context"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/metromood/internal/state"
)

// Memory keeps blobs in process. Nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, state.ErrNoState
	}

	return slices.Clone(blob), nil
}

func (m *Memory) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = slices.Clone(blob)

	return nil
}
