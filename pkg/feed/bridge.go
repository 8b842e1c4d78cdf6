package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/pushpin-forge/pushpin/pkg/store"
)

// EventSink receives change events. Satisfied by Publisher; tests supply
// their own.
type EventSink interface {
	Publish(ctx context.Context, ev Event) error
}

// Bridge forwards every document change from a store to an event sink. It
// requires a store with a store-wide feed (store.AllSubscriber).
type Bridge struct {
	source store.AllSubscriber
	sink   EventSink
	logger hclog.Logger
}

// BridgeOption is a functional option for creating a Bridge.
type BridgeOption func(*Bridge)

// WithBridgeLogger sets the logger.
func WithBridgeLogger(logger hclog.Logger) BridgeOption {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// NewBridge creates a bridge from a store client to an event sink. The
// client must implement store.AllSubscriber.
func NewBridge(client store.Client, sink EventSink, opts ...BridgeOption) (*Bridge, error) {
	source, ok := client.(store.AllSubscriber)
	if !ok {
		return nil, fmt.Errorf("store client does not expose a store-wide change feed")
	}
	if sink == nil {
		return nil, fmt.Errorf("event sink is required")
	}
	b := &Bridge{
		source: source,
		sink:   sink,
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "feed.bridge",
		}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Start begins forwarding changes and returns immediately. Publish
// failures are logged; the bridge never applies backpressure to the store.
// Stop with the returned function; stopping is idempotent.
func (b *Bridge) Start(ctx context.Context) (stop func()) {
	unsub := b.source.SubscribeAll(func(snap store.Snapshot) {
		ev := Event{
			DocumentID: snap.ID.String(),
			Version:    snap.Version,
			MIMEType:   snap.MIMEType,
			OccurredAt: time.Now().UTC(),
		}
		if err := b.sink.Publish(ctx, ev); err != nil {
			b.logger.Error("failed to forward change event",
				"document_id", ev.DocumentID, "version", ev.Version, "error", err)
		}
	})
	b.logger.Info("change feed bridge running")
	return unsub
}

// Run forwards changes until the context is done.
func (b *Bridge) Run(ctx context.Context) error {
	stop := b.Start(ctx)
	defer stop()

	<-ctx.Done()
	b.logger.Info("change feed bridge stopping")
	return nil
}
