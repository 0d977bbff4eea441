// Package syncmgr owns the background machinery of a signed-in user: the
// connectivity watcher, scheduled sync runs and the one-time cache eviction
// pass. One Session exists per signed-in user; the Manager replaces it when
// the user changes.
package syncmgr

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kavyatex/sareebook/internal/logging"
)

// Syncer is the slice of the order service the background machinery drives.
type Syncer interface {
	Flush(ctx context.Context, userID string) (int, error)
	SyncOrders(ctx context.Context, userID string) (bool, error)
	EvictStale(ctx context.Context, userID string) (int, error)
}

// Pinger probes reachability of the remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Manager struct {
	svc    Syncer
	pinger Pinger
	log    logging.Logger
	online *atomic.Bool

	pingInterval time.Duration
	schedule     string

	mu      sync.Mutex
	current *Session
}

// NewManager wires the background machinery. online is the shared
// connectivity flag the order service consults; the active session's watcher
// keeps it up to date.
func NewManager(svc Syncer, pinger Pinger, log logging.Logger, online *atomic.Bool, pingInterval time.Duration, schedule string) *Manager {
	return &Manager{
		svc:          svc,
		pinger:       pinger,
		log:          log,
		online:       online,
		pingInterval: pingInterval,
		schedule:     schedule,
	}
}

// Init ensures a running session for userID. Calling it again for the same
// user is a no-op returning the existing session; a different user tears the
// old session down first.
func (m *Manager) Init(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		if m.current.userID == userID {
			return m.current, nil
		}
		m.current.stop()
		m.current = nil
	}

	s, err := newSession(userID, m.svc, m.pinger, m.log, m.online, m.pingInterval, m.schedule)
	if err != nil {
		return nil, err
	}
	m.current = s
	return s, nil
}

// Current returns the active session, or nil when no user is signed in.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Teardown stops the active session, if any. Cached data stays on disk for
// the next sign-in.
func (m *Manager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.stop()
		m.current = nil
	}
}
