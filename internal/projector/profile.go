package projector

import "sort"

// StatusProbe queries a device's power state. It returns true only on
// a positive, confidently-parsed "on" signal; transport failures,
// parse failures, and standby all fold into false. Probes never panic
// and never return errors past this boundary.
type StatusProbe func(username, password, address string) bool

// SourceProbe queries a device's active input. It returns the
// normalized vendor source label and true on success; any failure,
// parse miss, or standby yields ("", false).
type SourceProbe func(username, password, address string) (string, bool)

// Profile describes one projector family: its command catalog, the
// credentials and headers its HTTP API expects, and its status/source
// probes.
type Profile struct {
	// ID is the vendor identifier used for registry lookup and stored
	// in the device list as projector_type.
	ID string

	// DefaultUsername and DefaultPassword are used when a device has
	// no per-device credential override.
	DefaultUsername string
	DefaultPassword string

	// Headers are static request headers sent with every command.
	// The placeholder "{ip}" is replaced with the device address.
	Headers map[string]string

	// ControlPage is the vendor's status page path, used by discovery
	// to fingerprint unidentified devices.
	ControlPage string

	// Catalog is the vendor's command table.
	Catalog *Catalog

	// Status and Source are the vendor's probe implementations.
	Status StatusProbe
	Source SourceProbe
}

// Registry resolves a vendor identifier to its Profile. It is built
// once at process start and treated as immutable read-only state;
// re-resolving a projector's vendor is a map lookup, nothing more.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry builds a registry from the given profiles. Later
// profiles with a duplicate ID replace earlier ones.
func NewRegistry(profiles ...*Profile) *Registry {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

// Lookup resolves a vendor ID. An unknown ID is a catalog/registry
// mismatch, not a runtime condition, so it fails with a distinct
// error type rather than degrading.
func (r *Registry) Lookup(id string) (*Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, NewUnknownVendorError(id)
	}
	return p, nil
}

// IDs returns all registered vendor IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
