package services

import (
	"sync"

	"go.uber.org/zap"
)

// ConnectivityMonitor holds the current online/offline state and notifies
// subscribers on change. State is fed either by an infrastructure prober or
// manually (tests, manual override in the UI).
type ConnectivityMonitor struct {
	mu          sync.RWMutex
	online      bool
	nextID      int
	subscribers map[int]func(online bool)
	logger      *zap.Logger
}

// NewConnectivityMonitor creates a monitor with the given initial state.
func NewConnectivityMonitor(logger *zap.Logger, initialOnline bool) *ConnectivityMonitor {
	return &ConnectivityMonitor{
		online:      initialOnline,
		subscribers: make(map[int]func(bool)),
		logger:      logger,
	}
}

// IsOnline is the synchronous "am I online right now" read.
func (m *ConnectivityMonitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline updates the state and notifies subscribers if it changed.
func (m *ConnectivityMonitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	subs := make([]func(bool), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.logger.Info("Connectivity changed", zap.Bool("online", online))

	// Callbacks run outside the lock so a subscriber may read the monitor.
	for _, fn := range subs {
		fn(online)
	}
}

// Subscribe registers a change callback and returns its unsubscribe func.
func (m *ConnectivityMonitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}
