package contenttypes

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/pushpin-forge/pushpin/pkg/content"
)

// RegisterAll installs every built-in content type into the registry. The
// order here decides MIME-inference tie-breaks between overlapping
// matchers. Individual failures are aggregated; a failed type never stops
// the others from registering.
func RegisterAll(r *content.Registry) error {
	var result *multierror.Error

	for _, d := range []content.Descriptor{
		Text(),
		Image(),
		Audio(),
		Contact(),
		Fallback(),
	} {
		if err := r.Register(d); err != nil {
			result = multierror.Append(result, fmt.Errorf("register %s: %w", d.Name, err))
		}
	}

	return result.ErrorOrNil()
}
