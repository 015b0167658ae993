package session

import (
    "context"
    "encoding/json"
    "sync"
)

// MemoryStore keeps the snapshot in process. Values are copied through JSON so
// callers never share slices with the store.
type MemoryStore struct {
    mu   sync.RWMutex
    data []byte
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    if m.data == nil {
        return nil, ErrNotFound
    }
    var snap Snapshot
    if err := json.Unmarshal(m.data, &snap); err != nil {
        return nil, err
    }
    return &snap, nil
}

func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
    data, err := json.Marshal(snap)
    if err != nil {
        return err
    }
    m.mu.Lock()
    m.data = data
    m.mu.Unlock()
    return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
    m.mu.Lock()
    m.data = nil
    m.mu.Unlock()
    return nil
}

func (m *MemoryStore) Close() error { return nil }
