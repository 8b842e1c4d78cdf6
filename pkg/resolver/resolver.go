package resolver

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/subscription"
)

// Outcome classifies the result of one resolution attempt.
type Outcome string

const (
	// OutcomeMounted means a renderer was instantiated and bound.
	OutcomeMounted Outcome = "mounted"

	// OutcomePending means the URL declares no type and the document has
	// no snapshot yet; nothing is renderable until one arrives. Not an
	// error: the caller may await the handle's binding and resolve
	// again.
	OutcomePending Outcome = "pending"

	// OutcomeUnknownType means no registered descriptor claims the
	// declared type name or the sniffed MIME type. Recoverable; callers
	// render a generic fallback.
	OutcomeUnknownType Outcome = "unknown-type"

	// OutcomeUnsupportedContext means the resolved type has no renderer
	// variant for the requested mount context. Recoverable.
	OutcomeUnsupportedContext Outcome = "unsupported-context"
)

// Resolver dispatches URLs to renderer instances using one registry and
// one subscription manager.
type Resolver struct {
	registry *content.Registry
	manager  *subscription.Manager
	logger   hclog.Logger
}

// Option is a functional option for creating a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver over a registry and a subscription manager.
func New(registry *content.Registry, manager *subscription.Manager, opts ...Option) (*Resolver, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if manager == nil {
		return nil, fmt.Errorf("subscription manager is required")
	}
	r := &Resolver{
		registry: registry,
		manager:  manager,
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "resolver",
		}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ResolveString parses an address string and resolves it. A malformed
// string fails with pushpinurl.ErrInvalidURL.
func (r *Resolver) ResolveString(s string, ctx content.Context) (*Handle, error) {
	u, err := pushpinurl.Parse(s)
	if err != nil {
		return nil, err
	}
	return r.Resolve(u, ctx)
}

// Resolve maps a URL and mount context to a renderer handle.
//
// The effective type is the URL's declared type when present; otherwise it
// is inferred from the document's MIME type, which requires a snapshot;
// until one exists the outcome is Pending and nothing is renderable. A miss
// in the registry yields UnknownType; a type without a variant for ctx
// yields UnsupportedContext. Only the Pending handle keeps its binding open
// (so the caller can await the first snapshot and resolve again).
func (r *Resolver) Resolve(u pushpinurl.Url, ctx content.Context) (*Handle, error) {
	if u.ID().IsZero() {
		return nil, fmt.Errorf("%w: zero url", pushpinurl.ErrInvalidURL)
	}
	if !ctx.IsValid() {
		return nil, fmt.Errorf("unknown mount context %q", ctx)
	}

	var (
		descriptor content.Descriptor
		binding    *subscription.Binding
	)

	if u.HasType() {
		d, ok := r.registry.LookupByName(u.Type())
		if !ok {
			r.logger.Debug("no descriptor for declared type", "url", u.String(), "type", u.Type())
			return r.unresolved(u, ctx, OutcomeUnknownType, nil), nil
		}
		descriptor = d
	} else {
		b, err := r.manager.Bind(u.ID())
		if err != nil {
			return nil, err
		}
		snap, ok := b.Snapshot()
		if !ok {
			r.logger.Debug("type inference pending first snapshot", "url", u.String())
			return r.unresolved(u, ctx, OutcomePending, b), nil
		}
		d, ok := r.registry.LookupByMIME(snap.MIMEType)
		if !ok {
			r.logger.Debug("no descriptor matches mime type",
				"url", u.String(), "mime_type", snap.MIMEType)
			_ = b.Close()
			return r.unresolved(u, ctx, OutcomeUnknownType, nil), nil
		}
		descriptor = d
		binding = b
	}

	factory, ok := descriptor.Variants[ctx]
	if !ok {
		r.logger.Debug("type does not support context",
			"url", u.String(), "type", descriptor.Name, "context", ctx)
		if binding != nil {
			_ = binding.Close()
		}
		h := r.unresolved(u, ctx, OutcomeUnsupportedContext, nil)
		h.descriptor = descriptor
		h.hasDescriptor = true
		return h, nil
	}

	if binding == nil {
		b, err := r.manager.Bind(u.ID())
		if err != nil {
			return nil, err
		}
		binding = b
	}

	renderer, err := factory(binding, r.bindFunc())
	if err != nil {
		_ = binding.Close()
		return nil, fmt.Errorf("failed to instantiate %s renderer for %s: %w",
			descriptor.Name, ctx, err)
	}

	r.logger.Debug("mounted renderer",
		"url", u.String(), "type", descriptor.Name, "context", ctx)

	return &Handle{
		outcome:       OutcomeMounted,
		url:           u,
		context:       ctx,
		descriptor:    descriptor,
		hasDescriptor: true,
		renderer:      renderer,
		binding:       binding,
	}, nil
}

// bindFunc adapts the subscription manager for cross-document binding by
// renderers.
func (r *Resolver) bindFunc() content.BindFunc {
	return func(id pushpinurl.DocumentID) (content.Document, error) {
		b, err := r.manager.Bind(id)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func (r *Resolver) unresolved(u pushpinurl.Url, ctx content.Context, outcome Outcome, binding *subscription.Binding) *Handle {
	return &Handle{
		outcome: outcome,
		url:     u,
		context: ctx,
		binding: binding,
	}
}
