package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
)

// subscriber is the receive surface of a Pub/Sub subscription.
type subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Consumer pulls catalog and payment events off the broker and hands them
// to the notification service.
type Consumer struct {
	sub  subscriber
	svc  Service
	logg *logger.Logger
}

func NewConsumer(sub subscriber, svc Service, logg *logger.Logger) (*Consumer, error) {
	if sub == nil {
		return nil, fmt.Errorf("subscriber required")
	}
	if svc == nil {
		return nil, fmt.Errorf("notification service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{sub: sub, svc: svc, logg: logg}, nil
}

// Run blocks receiving messages until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := c.Handle(ctx, msg.Attributes["event_type"], msg.Data); err != nil {
			logCtx := c.logg.WithFields(ctx, map[string]any{
				"event_type": msg.Attributes["event_type"],
				"event_id":   msg.Attributes["event_id"],
			})
			c.logg.Error(logCtx, "handling event", err)
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Handle dispatches one event payload by type. Undecodable payloads and
// unknown event types return nil so poison messages are not redelivered
// forever.
func (c *Consumer) Handle(ctx context.Context, eventType string, payload []byte) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "event_type", eventType), "dropping undecodable event payload")
		return nil
	}
	ctx = c.logg.WithField(ctx, "event_id", envelope.EventID)

	switch enums.EventType(eventType) {
	case enums.EventFoodPublished:
		var data outbox.FoodPublishedData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			c.logg.Warn(ctx, "dropping malformed food event")
			return nil
		}
		return c.svc.NotifyFoodPublished(ctx, data)
	case enums.EventMenuPublished:
		var data outbox.MenuPublishedData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			c.logg.Warn(ctx, "dropping malformed menu event")
			return nil
		}
		return c.svc.NotifyMenuPublished(ctx, data)
	case enums.EventPaymentSettled:
		var data outbox.PaymentSettledData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			c.logg.Warn(ctx, "dropping malformed payment event")
			return nil
		}
		return c.svc.NotifyPaymentSettled(ctx, data)
	default:
		c.logg.Warn(c.logg.WithField(ctx, "event_type", eventType), "ignoring unknown event type")
		return nil
	}
}
