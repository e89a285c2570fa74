package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"pet-vaccinations/internal/platform/taskqueue"
)

// Producer es el subconjunto de *kgo.Client que usa KafkaSink.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publica el evento en un topic, con key = pet_id (orden por mascota).
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(p Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

// NewKafkaClient crea el cliente franz-go para los brokers dados.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return taskqueue.Permanent(fmt.Errorf("kafka: marshal event: %w", err))
	}

	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(e.PetID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "event", Value: []byte(e.Event)},
		},
	}
	if err := s.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("kafka: produce: %w", err)
	}
	return nil
}
