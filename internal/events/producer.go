package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
)

// Producer publishes scheduler events to Kafka. Events are keyed by brand so
// per-brand ordering survives partitioning.
type Producer struct {
	client *kgo.Client
	source string
	logger logging.Logger
}

// NewProducer connects a producer to the given brokers. source names this
// service instance in every envelope.
func NewProducer(brokers []string, source string, logger logging.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(source),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10 * time.Millisecond),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Producer{client: client, source: source, logger: logger}, nil
}

// Close flushes and releases the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}

// HealthCheck pings the brokers.
func (p *Producer) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	return nil
}

// Publish sends one event to topic, keyed by its brand id.
func (p *Producer) Publish(ctx context.Context, topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.BrandID),
		Value: payload,
	}

	result := p.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("produce %s to %s: %w", event.Type, topic, err)
	}

	p.logger.WithFields(logging.Fields{
		"topic":    topic,
		"type":     event.Type,
		"brand_id": event.BrandID,
		"event_id": event.ID,
	}).Debug("Event published")

	return nil
}

// PostRescheduled publishes the post.rescheduled event.
func (p *Producer) PostRescheduled(ctx context.Context, brandID, postID string, newDate time.Time) error {
	return p.Publish(ctx, TopicPosts, PostRescheduledEvent(p.source, brandID, postID, newDate))
}

// PostDeleted publishes the post.deleted event.
func (p *Producer) PostDeleted(ctx context.Context, brandID, postID string) error {
	return p.Publish(ctx, TopicPosts, PostDeletedEvent(p.source, brandID, postID))
}

// DistributionRequested hands the evergreen workflow its destination date.
func (p *Producer) DistributionRequested(ctx context.Context, brandID string, date time.Time) error {
	return p.Publish(ctx, TopicEvergreen, DistributionRequestedEvent(p.source, brandID, date))
}
