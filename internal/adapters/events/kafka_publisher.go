package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
)

// KafkaPublisher routes domain envelopes to their event-type topic,
// analytics envelopes to a shared analytics topic, and poison records
// to the DLQ topic.
type KafkaPublisher struct {
	writer         *kafka.Writer
	analyticsTopic string
	dlqTopic       string
	topicByEvent   map[string]string
}

func NewKafkaPublisher(brokers []string, analyticsTopic, dlqTopic string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if analyticsTopic == "" {
		analyticsTopic = "nexus-ledger.analytics"
	}
	if dlqTopic == "" {
		dlqTopic = "nexus-ledger.dlq"
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		analyticsTopic: analyticsTopic,
		dlqTopic:       dlqTopic,
		topicByEvent:   topicByEvent,
	}, nil
}

func (p *KafkaPublisher) PublishDomain(ctx context.Context, envelope contracts.EventEnvelope) error {
	topic := envelope.EventType
	if mapped, ok := p.topicByEvent[envelope.EventType]; ok && mapped != "" {
		topic = mapped
	}
	return p.write(ctx, topic, envelope.PartitionKey, envelope)
}

func (p *KafkaPublisher) PublishAnalytics(ctx context.Context, envelope contracts.EventEnvelope) error {
	return p.write(ctx, p.analyticsTopic, envelope.PartitionKey, envelope)
}

func (p *KafkaPublisher) PublishDLQ(ctx context.Context, record contracts.DLQRecord) error {
	return p.write(ctx, p.dlqTopic, record.OriginalEvent.PartitionKey, record)
}

func (p *KafkaPublisher) write(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
