package events

import (
	"context"
	"encoding/json"
	"time"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultChannel is the Redis pub/sub channel events are published on.
const DefaultChannel = "rwa:events"

// Publisher fans committed events out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, evs []domain.AuditEvent) error
}

// RedisPublisher publishes each event as JSON on a Redis channel.
type RedisPublisher struct {
	Rdb     *redis.Client
	Channel string
}

func (p *RedisPublisher) Publish(ctx context.Context, evs []domain.AuditEvent) error {
	channel := p.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	for _, ev := range evs {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if err := p.Rdb.Publish(ctx, channel, b).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Service persists audit events and publishes them after commit.
type Service struct {
	DB        *gorm.DB
	Publisher Publisher
	Metrics   *metrics.Metrics
}

// Batch collects the events of one transaction. Record inside the transaction,
// Publish after it commits.
type Batch struct {
	at     time.Time
	events []domain.AuditEvent
}

// NewBatch starts a batch whose events are stamped with at.
func NewBatch(at time.Time) *Batch {
	return &Batch{at: at}
}

// Record writes ev in tx and keeps it for publishing.
func (b *Batch) Record(tx *gorm.DB, ev domain.AuditEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = b.at
	}
	if err := tx.Create(&ev).Error; err != nil {
		return err
	}
	b.events = append(b.events, ev)
	return nil
}

// Events returns the recorded events in order.
func (b *Batch) Events() []domain.AuditEvent {
	return b.events
}

// Data marshals v for AuditEvent.Data. Marshal failures yield an empty object.
func Data(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// Publish sends a committed batch to the publisher. Failures are logged, never returned:
// the mutation the events describe has already committed.
func (s *Service) Publish(ctx context.Context, b *Batch) {
	if s == nil || b == nil || len(b.events) == 0 {
		return
	}
	for _, ev := range b.events {
		s.Metrics.EventCommitted(string(ev.Kind))
	}
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, b.events); err != nil {
		s.Metrics.PublishFailed()
		log.Warn().Err(err).Int("events", len(b.events)).Str("first_kind", string(b.events[0].Kind)).
			Msg("events: publish failed after commit")
	}
}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	Kind    domain.EventKind
	Subject string
	AssetID uuid.UUID
	LeaseID uint
	Limit   int
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// List returns persisted events, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.AuditEvent, error) {
	q := s.DB.WithContext(ctx).Model(&domain.AuditEvent{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	if f.AssetID != uuid.Nil {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	if f.LeaseID != 0 {
		q = q.Where("lease_id = ?", f.LeaseID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	var out []domain.AuditEvent
	if err := q.Order(`"createdAt" DESC, seq DESC`).Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
