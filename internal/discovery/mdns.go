package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type projector web interfaces
	// advertise under.
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// hostPattern matches host names that look like projector web
// interfaces (e.g. "EPSON1A2B3C.local.", "christie-4k25.local").
var hostPattern = regexp.MustCompile(`(?i)^(epson|christie|projector|pj)[\w-]*\.local\.?$`)

// Browse listens for mDNS HTTP service announcements until the
// scanner's timeout elapses and returns the announcements whose host
// names look like projectors. Matches are fingerprinted to confirm and
// classify the vendor; a hostname match alone is not enough, since
// printers and signage advertise the same service type.
func (s *Scanner) Browse(ctx context.Context) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	candidates := make([]Candidate, 0)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			if candidate, ok := s.parseServiceEntry(ctx, entry); ok {
				candidates = append(candidates, candidate)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return candidates, nil
}

// parseServiceEntry converts a zeroconf service entry to a Candidate.
// Entries whose hostname doesn't look like a projector, or whose
// address fails fingerprinting, are dropped.
func (s *Scanner) parseServiceEntry(ctx context.Context, entry *zeroconf.ServiceEntry) (Candidate, bool) {
	hostname := entry.HostName
	if hostname == "" || !hostPattern.MatchString(hostname) {
		return Candidate{}, false
	}

	var address string
	for _, addr := range entry.AddrIPv4 {
		address = addr.String()
		break
	}
	if address == "" {
		return Candidate{}, false
	}

	vendorID, ok := s.Fingerprint(ctx, address)
	if !ok {
		// The control pages didn't answer; fall back to the hostname's
		// vendor keyword so the candidate is still actionable.
		vendorID, ok = s.vendorFromHostname(hostname)
		if !ok {
			return Candidate{}, false
		}
	}

	return Candidate{
		Address:      address,
		VendorID:     vendorID,
		Hostname:     hostname,
		Via:          ViaMDNS,
		DiscoveredAt: time.Now(),
	}, true
}

func (s *Scanner) vendorFromHostname(hostname string) (string, bool) {
	lower := strings.ToLower(hostname)
	for _, id := range s.registry.IDs() {
		if strings.HasPrefix(lower, id) {
			return id, true
		}
	}
	return "", false
}
