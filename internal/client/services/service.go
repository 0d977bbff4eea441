// Package services implements the offline-first order operations: cached
// reads with background revalidation, optimistic mutations queued in the
// outbox, delta sync against the remote store, and cache eviction.
package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kavyatex/sareebook/internal/client/db"
	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/client/remote"
	"github.com/kavyatex/sareebook/internal/logging"
)

const (
	defaultRetention      = 3 * 24 * time.Hour
	defaultSuggestionsTTL = 10 * time.Minute
	revalidateTimeout     = 15 * time.Second
)

// OrderService is the facade the UI layer talks to. All remote failures on
// background paths are logged and swallowed; the cache stays authoritative
// until the next successful sync.
type OrderService struct {
	store  *db.Store
	remote remote.Source
	log    logging.Logger

	online func() bool
	now    func() time.Time

	retention      time.Duration
	suggestionsTTL time.Duration

	// flushing admits a single outbox flush at a time; concurrent calls are
	// no-ops, which keeps replay strictly FIFO.
	flushing atomic.Bool
}

type Option func(*OrderService)

// WithOnlineCheck supplies the connectivity predicate consulted before any
// remote work. Defaults to always-online.
func WithOnlineCheck(f func() bool) Option {
	return func(s *OrderService) { s.online = f }
}

// WithClock overrides the time source. Tests use this to pin eviction and
// timestamp behavior.
func WithClock(f func() time.Time) Option {
	return func(s *OrderService) { s.now = f }
}

func WithRetention(d time.Duration) Option {
	return func(s *OrderService) { s.retention = d }
}

func WithSuggestionsTTL(d time.Duration) Option {
	return func(s *OrderService) { s.suggestionsTTL = d }
}

func NewOrderService(store *db.Store, src remote.Source, log logging.Logger, opts ...Option) *OrderService {
	s := &OrderService{
		store:          store,
		remote:         src,
		log:            log,
		online:         func() bool { return true },
		now:            time.Now,
		retention:      defaultRetention,
		suggestionsTTL: defaultSuggestionsTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OutboxDepth reports how many mutations are still awaiting confirmation.
func (s *OrderService) OutboxDepth(ctx context.Context, userID string) (int, error) {
	return s.store.Outbox.Depth(ctx, userID)
}

func orderIDs(list []models.Order) []string {
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

// touch records access times; failures only degrade eviction accuracy.
func (s *OrderService) touch(ctx context.Context, userID string, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := s.store.Metadata.Touch(ctx, userID, ids, s.now()); err != nil {
		s.log.Warn(ctx, "failed to record access times", "user_id", userID, "error", err)
	}
}
