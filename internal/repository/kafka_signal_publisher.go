package repository

import (
	"context"
	"fmt"

	"FxSignals/internal/domain/models"
)

const signalsKey = "signals"

// MessageProducer is the subset of the Kafka producer used for the signal feed.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaSignalPublisher publishes every generated envelope to a topic.
type KafkaSignalPublisher struct {
	producer MessageProducer
	topic    string
}

func NewKafkaSignalPublisher(p MessageProducer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: p, topic: topic}
}

func (k *KafkaSignalPublisher) PublishSignals(ctx context.Context, env *models.ResponseEnvelope) error {
	if err := k.producer.Publish(ctx, k.topic, []byte(signalsKey), env); err != nil {
		return fmt.Errorf("publish signals to %s: %w", k.topic, err)
	}
	return nil
}

func (k *KafkaSignalPublisher) Close() error {
	return k.producer.Close()
}
