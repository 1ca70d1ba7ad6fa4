package store

import (
    "context"
    "strings"
    "sync"
    "time"
)

type memEntry struct {
    rec     Record
    expires time.Time
}

// Memory is an in-process Store. Entries expire ttl after their last save.
type Memory struct {
    mu      sync.RWMutex
    ttl     time.Duration
    now     func() time.Time
    entries map[string]memEntry
}

// NewMemory returns an empty store; ttl <= 0 keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
    return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

func (m *Memory) Save(ctx context.Context, rec *Record) error {
    if rec == nil {
        return nil
    }
    e := memEntry{rec: *rec}
    if m.ttl > 0 {
        e.expires = m.now().Add(m.ttl)
    }
    m.mu.Lock()
    m.entries[m.key(rec.ID)] = e
    m.mu.Unlock()
    return nil
}

func (m *Memory) Load(ctx context.Context, id string) (*Record, error) {
    key := m.key(id)
    m.mu.RLock()
    e, ok := m.entries[key]
    m.mu.RUnlock()
    if !ok {
        return nil, nil
    }
    if m.expired(e) {
        m.mu.Lock()
        // a Save may have refreshed the entry since the read
        if cur, ok := m.entries[key]; ok && m.expired(cur) {
            delete(m.entries, key)
        }
        m.mu.Unlock()
        return nil, nil
    }
    cp := e.rec
    return &cp, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
    m.mu.Lock()
    delete(m.entries, m.key(id))
    m.mu.Unlock()
    return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) expired(e memEntry) bool {
    return !e.expires.IsZero() && m.now().After(e.expires)
}

func (m *Memory) key(id string) string { return strings.TrimSpace(id) }
