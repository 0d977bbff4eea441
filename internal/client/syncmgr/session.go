package syncmgr

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kavyatex/sareebook/internal/logging"
	"github.com/robfig/cron/v3"
)

const pingTimeout = 3 * time.Second

// Session is the per-user background runtime: a connectivity watcher, a cron
// schedule for periodic sync, and a notification channel the UI layer can
// watch to re-render after background changes.
type Session struct {
	userID string
	svc    Syncer
	log    logging.Logger

	online *atomic.Bool

	cancel  context.CancelFunc
	cron    *cron.Cron
	wg      sync.WaitGroup
	updates chan struct{}

	// syncing admits one sync run at a time; overlapping triggers (timer,
	// reconnect, foreground) collapse into the run already in flight.
	syncing atomic.Bool
}

func newSession(userID string, svc Syncer, pinger Pinger, log logging.Logger, online *atomic.Bool, pingInterval time.Duration, schedule string) (*Session, error) {
	s := &Session{
		userID:  userID,
		svc:     svc,
		log:     log,
		online:  online,
		cron:    cron.New(),
		updates: make(chan struct{}, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if _, err := s.cron.AddFunc(schedule, func() { s.trigger(ctx) }); err != nil {
		cancel()
		return nil, err
	}

	s.wg.Add(1)
	go s.watch(ctx, pinger, pingInterval)

	// Evict before anything repopulates access times, then catch up.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		n, err := svc.EvictStale(ctx, userID)
		if err != nil {
			log.Warn(ctx, "eviction pass failed", "user_id", userID, "error", err)
		} else if n > 0 {
			log.Info(ctx, "evicted stale orders", "user_id", userID, "count", n)
		}
		s.trigger(ctx)
	}()

	s.cron.Start()
	return s, nil
}

// watch probes the remote on a ticker and keeps the shared online flag
// current. A transition from offline to online triggers an immediate flush
// and sync.
func (s *Session) watch(ctx context.Context, pinger Pinger, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := pinger.Ping(pingCtx)
			cancel()

			was := s.online.Swap(err == nil)
			if err != nil {
				if was {
					s.log.Info(ctx, "connection lost", "user_id", s.userID)
				}
				continue
			}
			if !was {
				s.log.Info(ctx, "connection restored", "user_id", s.userID)
				s.trigger(ctx)
			}

		case <-ctx.Done():
			return
		}
	}
}

// trigger runs one flush-then-sync pass, collapsing concurrent triggers.
func (s *Session) trigger(ctx context.Context) {
	if !s.syncing.CompareAndSwap(false, true) {
		return
	}
	defer s.syncing.Store(false)

	if _, err := s.svc.Flush(ctx, s.userID); err != nil {
		s.log.Warn(ctx, "outbox flush failed", "user_id", s.userID, "error", err)
	}
	changed, err := s.svc.SyncOrders(ctx, s.userID)
	if err != nil {
		s.log.Warn(ctx, "sync failed", "user_id", s.userID, "error", err)
		return
	}
	if changed {
		s.notify()
	}
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Updates signals when a background pass changed the local cache; the UI
// layer re-reads and re-renders on receipt.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Foreground is the app-resume hook: it kicks a flush-then-sync pass in the
// background and returns immediately.
func (s *Session) Foreground(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.trigger(ctx)
	}()
}

func (s *Session) stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
}
