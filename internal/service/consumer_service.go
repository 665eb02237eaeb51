package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"legal-analysis-be/pkg/events"
	"legal-analysis-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains pipeline progress events off the in-process bus.
// Every event is logged; completed-analysis events are additionally fanned
// out to NATS for downstream consumers.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	publisher *nats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	publisher *nats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		publisher: publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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

type progressEnvelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope progressEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal progress event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Pipeline progress: %s %v", envelope.Type, envelope.Data)

	if envelope.Type == events.TypeAnalysisCompleted && cs.publisher != nil {
		event := events.BaseEvent{
			Type:       envelope.Type,
			Data:       envelope.Data,
			OccurredAt: envelope.OccurredAt,
		}
		if err := cs.publisher.Publish(ctx, event); err != nil {
			log.Printf("[ERROR] Failed to forward event to NATS: %v", err)
			msg.Nack() // Nack for retriable errors
			return
		}
	}

	msg.Ack()
}
