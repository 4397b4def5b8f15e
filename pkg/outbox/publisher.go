package outbox

import (
	"context"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/minhngdev/foodcourt-backend/pkg/config"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

// Publisher drains pending outbox rows to the broker in commit order.
type Publisher struct {
	repo      *Repository
	publisher *pubsub.Publisher
	cfg       config.OutboxConfig
	logg      *logger.Logger
}

func NewPublisher(repo *Repository, publisher *pubsub.Publisher, cfg config.OutboxConfig, logg *logger.Logger) *Publisher {
	return &Publisher{repo: repo, publisher: publisher, cfg: cfg, logg: logg}
}

// Run polls the outbox until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	interval := time.Duration(p.cfg.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.DrainOnce(ctx); err != nil {
				p.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce publishes one batch of pending events. Each event is marked
// published or failed individually so one bad row cannot block the stream.
func (p *Publisher) DrainOnce(ctx context.Context) error {
	rows, err := p.repo.FetchPending(p.cfg.BatchSize, p.cfg.MaxAttempts)
	if err != nil {
		return fmt.Errorf("fetching pending events: %w", err)
	}

	for _, row := range rows {
		if err := p.publishOne(ctx, row); err != nil {
			logCtx := p.logg.WithField(ctx, "event_id", row.ID.String())
			p.logg.Error(logCtx, "publishing outbox event", err)
			if markErr := p.repo.MarkFailed(row.ID, err, p.cfg.MaxAttempts); markErr != nil {
				p.logg.Error(logCtx, "marking outbox event failed", markErr)
			}
			continue
		}
		if err := p.repo.MarkPublished(row.ID); err != nil {
			return fmt.Errorf("marking event %s published: %w", row.ID, err)
		}
	}
	return nil
}

func (p *Publisher) publishOne(ctx context.Context, row models.OutboxEvent) error {
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: row.Payload,
		Attributes: map[string]string{
			"event_type":   string(row.EventType),
			"event_id":     row.ID.String(),
			"aggregate_id": fmt.Sprintf("%d", row.AggregateID),
		},
	})
	_, err := result.Get(ctx)
	return err
}
