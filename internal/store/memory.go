package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process backend. Nothing survives Close.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	events []SessionEvent
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) AppendSessionEvent(_ context.Context, ev SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.Sequence = int64(len(m.events) + 1)
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) SessionEvents(_ context.Context, opts QueryOpts) ([]SessionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SessionEvent
	for _, ev := range m.events {
		if ev.Sequence <= opts.After {
			continue
		}
		if !opts.From.IsZero() && ev.Timestamp.Before(opts.From) {
			continue
		}
		out = append(out, ev)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}
