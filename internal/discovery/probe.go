package discovery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/beamctl/internal/logging"
	"github.com/muurk/beamctl/internal/projector"
)

const (
	// DefaultSweepTimeout bounds a whole subnet sweep.
	DefaultSweepTimeout = 10 * time.Second

	// DefaultProbeTimeout bounds one fingerprint request. Projectors
	// answer their own control pages fast; anything slower is not one.
	DefaultProbeTimeout = 500 * time.Millisecond

	// DefaultConcurrency limits in-flight fingerprint requests during
	// a sweep.
	DefaultConcurrency = 50
)

// Scanner finds projector-like devices on the local network by
// fingerprinting vendor control pages, optionally assisted by mDNS.
type Scanner struct {
	registry *projector.Registry

	// Timeout bounds a whole Sweep or Browse call.
	Timeout time.Duration

	// ProbeTimeout bounds a single fingerprint request.
	ProbeTimeout time.Duration

	// Concurrency limits in-flight requests during a sweep.
	Concurrency int
}

// NewScanner creates a scanner that fingerprints against the given
// vendor registry.
func NewScanner(registry *projector.Registry) *Scanner {
	return &Scanner{
		registry:     registry,
		Timeout:      DefaultSweepTimeout,
		ProbeTimeout: DefaultProbeTimeout,
		Concurrency:  DefaultConcurrency,
	}
}

// Fingerprint checks whether the device at address serves a known
// vendor's control page. It tries each registered vendor in ID order
// and reports the first match; 200 and 401 both count, since a
// credential challenge on the right path identifies the family just
// as well as a served page.
func (s *Scanner) Fingerprint(ctx context.Context, address string) (string, bool) {
	client := &http.Client{Timeout: s.ProbeTimeout}

	for _, id := range s.registry.IDs() {
		profile, err := s.registry.Lookup(id)
		if err != nil {
			continue
		}
		if s.matchesProfile(ctx, client, profile, address) {
			return id, true
		}
	}
	return "", false
}

func (s *Scanner) matchesProfile(ctx context.Context, client *http.Client, profile *projector.Profile, address string) bool {
	target := "http://" + address + profile.ControlPage
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	for key, value := range profile.Headers {
		req.Header.Set(key, strings.ReplaceAll(value, "{ip}", address))
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnauthorized
}

// Sweep fingerprints every host on the given subnets and returns the
// candidates found, ordered by address. Subnets may be CIDR blocks
// ("192.168.0.0/24") or bare prefixes ("192.168.0"); nil means every
// local /24.
func (s *Scanner) Sweep(ctx context.Context, subnets []string) []Candidate {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	prefixes := make([]string, 0, len(subnets))
	for _, subnet := range subnets {
		if prefix, ok := subnetPrefix(subnet); ok {
			prefixes = append(prefixes, prefix)
		}
	}
	if len(prefixes) == 0 {
		prefixes = LocalSubnets()
	}

	var (
		mu         sync.Mutex
		candidates []Candidate
		wg         sync.WaitGroup
	)
	sem := make(chan struct{}, s.Concurrency)

	for _, prefix := range prefixes {
		logging.Debug("sweeping subnet", zap.String("prefix", prefix))
		for _, address := range expandSubnet(prefix) {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(address string) {
				defer wg.Done()
				defer func() { <-sem }()

				vendorID, ok := s.Fingerprint(ctx, address)
				if !ok {
					return
				}
				logging.Debug("sweep hit",
					zap.String("address", address),
					zap.String("vendor", vendorID),
				)
				mu.Lock()
				candidates = append(candidates, Candidate{
					Address:      address,
					VendorID:     vendorID,
					Via:          ViaSweep,
					DiscoveredAt: time.Now(),
				})
				mu.Unlock()
			}(address)
		}
	}
	wg.Wait()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Address < candidates[j].Address
	})
	return candidates
}

// LocalSubnets returns the /24 prefixes of every up, non-loopback
// IPv4 interface.
func LocalSubnets() []string {
	var subnets []string
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil {
				continue
			}
			ones, bits := ipNet.Mask.Size()
			if ones == 0 || bits == 0 || ones > 24 {
				continue
			}
			subnets = append(subnets, fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2]))
		}
	}
	return subnets
}

// subnetPrefix reduces a CIDR block or bare prefix to the first three
// octets used for sweeping.
func subnetPrefix(subnet string) (string, bool) {
	if subnet == "" {
		return "", false
	}
	if _, ipNet, err := net.ParseCIDR(subnet); err == nil {
		ip := ipNet.IP.To4()
		if ip == nil {
			return "", false
		}
		return fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2]), true
	}
	if strings.Count(subnet, ".") == 2 {
		return subnet, true
	}
	return "", false
}

func expandSubnet(prefix string) []string {
	addresses := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		addresses = append(addresses, fmt.Sprintf("%s.%d", prefix, i))
	}
	return addresses
}
