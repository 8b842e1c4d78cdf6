package resolver

import (
	"github.com/hashicorp/go-multierror"

	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/subscription"
)

// Handle is the result of one resolution attempt. A Mounted handle owns the
// renderer and its document binding; a Pending handle owns only the binding
// (so the caller can await the first snapshot); other outcomes own nothing.
type Handle struct {
	outcome       Outcome
	url           pushpinurl.Url
	context       content.Context
	descriptor    content.Descriptor
	hasDescriptor bool
	renderer      content.Renderer
	binding       *subscription.Binding
}

// Outcome classifies the resolution result.
func (h *Handle) Outcome() Outcome {
	return h.outcome
}

// Mounted returns true when a renderer was instantiated.
func (h *Handle) Mounted() bool {
	return h.outcome == OutcomeMounted
}

// URL returns the resolved address.
func (h *Handle) URL() pushpinurl.Url {
	return h.url
}

// Context returns the requested mount context.
func (h *Handle) Context() content.Context {
	return h.context
}

// Renderer returns the mounted renderer, or nil for non-mounted outcomes.
func (h *Handle) Renderer() content.Renderer {
	return h.renderer
}

// Descriptor returns the resolved type descriptor. Present for Mounted and
// UnsupportedContext (where the type resolved but the placement did not).
func (h *Handle) Descriptor() (content.Descriptor, bool) {
	return h.descriptor, h.hasDescriptor
}

// Sizing returns the resolved type's layout bounds for the window-chrome
// collaborator.
func (h *Handle) Sizing() (content.Sizing, bool) {
	if !h.hasDescriptor {
		return content.Sizing{}, false
	}
	return h.descriptor.Sizing, true
}

// Binding returns the document binding, or nil when the outcome carries
// none. For Pending handles the caller can await Updates and resolve again.
func (h *Handle) Binding() *subscription.Binding {
	return h.binding
}

// Close releases the renderer and the binding. Idempotent through the
// idempotence of both.
func (h *Handle) Close() error {
	var result *multierror.Error
	if h.renderer != nil {
		if err := h.renderer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if h.binding != nil {
		if err := h.binding.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
