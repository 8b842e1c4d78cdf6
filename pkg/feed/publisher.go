// Package feed publishes document change events to a Redpanda/Kafka topic.
//
// The feed is strictly downstream of the store: mutations never wait for
// publication, and a publish failure is logged, not surfaced to the caller
// that mutated the document. Events for one document share a partition key,
// so consumers observe each document's versions in order.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Event is one document change as seen by feed consumers.
type Event struct {
	DocumentID string    `json:"documentId"`
	Version    uint64    `json:"version"`
	MIMEType   string    `json:"mimeType,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// Publisher publishes change events to Redpanda/Kafka.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger hclog.Logger
}

// PublisherOption is a functional option for creating a Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a change feed publisher.
func NewPublisher(cfg PublisherConfig, opts ...PublisherOption) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.GzipCompression()),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	p := &Publisher{
		client: client,
		topic:  cfg.Topic,
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "feed",
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Ping verifies broker reachability, retrying with exponential backoff
// until the brokers answer or the context is done.
func (p *Publisher) Ping(ctx context.Context) error {
	op := func() error {
		return p.client.Ping(ctx)
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		return fmt.Errorf("brokers unreachable: %w", err)
	}
	return nil
}

// Publish submits one event asynchronously. It never blocks on broker
// acknowledgement; delivery failures are logged. Events for the same
// document are keyed to the same partition.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(partitionKey(ev)),
		Value: value,
	}

	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to publish change event",
				"document_id", ev.DocumentID, "version", ev.Version, "error", err)
		}
	})
	return nil
}

// Close flushes pending records and releases the client.
func (p *Publisher) Close() {
	p.client.Close()
}

// partitionKey keeps all events about one document on one partition so
// consumers see its versions in order.
func partitionKey(ev Event) string {
	return fmt.Sprintf("doc:%s", ev.DocumentID)
}
