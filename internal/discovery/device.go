package discovery

import "time"

// How a candidate was found.
const (
	ViaSweep = "sweep"
	ViaMDNS  = "mdns"
)

// Candidate is a network device that answered like a known projector
// family but is not yet in the device list.
type Candidate struct {
	// Address is the device's IP.
	Address string

	// VendorID is the matched vendor profile.
	VendorID string

	// Hostname is the mDNS host name, when discovered that way.
	Hostname string

	// Via records which mechanism found the device.
	Via string

	// DiscoveredAt is when the candidate was seen.
	DiscoveredAt time.Time
}
