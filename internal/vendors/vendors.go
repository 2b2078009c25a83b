package vendors

import (
	"net/http"
	"time"

	"github.com/muurk/beamctl/internal/projector"
)

// Vendor identifiers, used as the projector_type key in the device
// list and for registry lookup.
const (
	EpsonID    = "epson"
	ChristieID = "christie"
)

// ProbeTimeout bounds every status/source probe. Probes degrade to
// false/none on timeout rather than blocking the caller.
const ProbeTimeout = 3 * time.Second

// probeClient is shared by all vendor probes. Probes are best-effort
// reads, so a single short-timeout client is enough.
var probeClient = &http.Client{Timeout: ProbeTimeout}

var registry = projector.NewRegistry(
	epsonProfile,
	christieProfile,
)

// Registry returns the process-wide vendor registry, built once at
// package initialization and immutable afterwards.
func Registry() *projector.Registry {
	return registry
}

// IDs returns all registered vendor identifiers in sorted order.
func IDs() []string {
	return registry.IDs()
}
