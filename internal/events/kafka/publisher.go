package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/analytics"
)

// Publisher mirrors storefront analytics events onto a Kafka topic for
// downstream consumers. The JSONL log stays the source of truth.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = "storefront_events"
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, e analytics.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Event),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
