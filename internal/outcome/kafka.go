package outcome

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

const contentTypeJSON = "application/json"

// KafkaPublisher writes outcome events to a topic keyed by collection event id,
// so every verdict for one event lands on the same partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(client *kgo.Client, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.EventID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "content-type", Value: []byte(contentTypeJSON)},
			{Key: "outcome-id", Value: []byte(event.ID)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce outcome to %s: %w", p.topic, err)
	}
	return nil
}

// Health pings the brokers.
func (p *KafkaPublisher) Health(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka ping: %w", err)
	}
	return nil
}
