package service

import (
	"context"
	"encoding/json"

	"doctech-be/internal/pkg/logger"
	"doctech-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the query topic into the audit log and, when a
// forwarder is configured, relays each event to NATS.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	audit      logger.ILogger
	forwarder  IEventPublisher
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	audit logger.ILogger,
	forwarder IEventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		audit:      audit,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var evt events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error("AUDIT", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// poison message, retrying won't help
		msg.Ack()
		return
	}

	details := map[string]interface{}{
		"event_id":    evt.ID,
		"occurred_at": evt.OccurredAt,
	}
	for k, v := range evt.Data {
		details[k] = v
	}
	cs.audit.Info("AUDIT", evt.Type, details)

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, evt); err != nil {
			cs.logger.Warn("AUDIT", "Failed to forward event to NATS", map[string]interface{}{
				"event_id": evt.ID,
				"type":     evt.Type,
				"error":    err.Error(),
			})
		}
	}

	msg.Ack()
}
