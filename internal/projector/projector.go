package projector

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/beamctl/internal/logging"
)

const (
	// DefaultTimeout bounds every command request so a dead device
	// cannot block the caller indefinitely.
	DefaultTimeout = 3 * time.Second

	// ResendDelay is the pause between the two sends of a SendTwice
	// command. The second send carries a freshly computed timestamp.
	ResendDelay = 500 * time.Millisecond
)

// Projector is the live binding between one device record and its
// resolved vendor profile. It is the single type external callers use
// to drive a device: power, source selection, and feature toggles.
//
// A Projector is not safe for concurrent use; each device gets its own
// unshared instance and operations are synchronous blocking calls.
type Projector struct {
	name     string
	address  string
	vendorID string

	// Per-device credential overrides; empty means use the vendor default.
	usernameOverride string
	passwordOverride string

	registry *Registry
	profile  *Profile

	client      *http.Client
	resendDelay time.Duration
	now         func() time.Time
}

// New creates a Projector for the device at address, resolving
// vendorID against the registry. It fails loudly for an unregistered
// vendor since that indicates a corrupted device list, not a network
// condition.
func New(registry *Registry, vendorID, address string) (*Projector, error) {
	profile, err := registry.Lookup(vendorID)
	if err != nil {
		return nil, err
	}

	return &Projector{
		address:     address,
		vendorID:    vendorID,
		registry:    registry,
		profile:     profile,
		client:      &http.Client{Timeout: DefaultTimeout},
		resendDelay: ResendDelay,
		now:         time.Now,
	}, nil
}

// Name returns the device's display name.
func (p *Projector) Name() string { return p.name }

// SetName sets the device's display name.
func (p *Projector) SetName(name string) { p.name = name }

// Address returns the device's host or IP.
func (p *Projector) Address() string { return p.address }

// SetAddress updates the device's host or IP.
func (p *Projector) SetAddress(address string) { p.address = address }

// VendorID returns the active vendor identifier.
func (p *Projector) VendorID() string { return p.vendorID }

// Profile returns the resolved vendor profile.
func (p *Projector) Profile() *Profile { return p.profile }

// SetVendor switches the device to a different vendor profile,
// re-resolving the catalog and probes immediately. Requests already
// assembled under the old vendor are unaffected.
func (p *Projector) SetVendor(vendorID string) error {
	if vendorID == p.vendorID {
		return nil
	}
	profile, err := p.registry.Lookup(vendorID)
	if err != nil {
		return err
	}
	p.vendorID = vendorID
	p.profile = profile
	return nil
}

// SetCredentials sets per-device credential overrides. Empty values
// fall back to the vendor profile's defaults.
func (p *Projector) SetCredentials(username, password string) {
	p.usernameOverride = username
	p.passwordOverride = password
}

// Credentials returns the effective username and password: the
// per-device override when set, else the vendor default.
func (p *Projector) Credentials() (username, password string) {
	username = p.profile.DefaultUsername
	password = p.profile.DefaultPassword
	if p.usernameOverride != "" {
		username = p.usernameOverride
	}
	if p.passwordOverride != "" {
		password = p.passwordOverride
	}
	return username, password
}

// Overrides returns the raw per-device credential overrides (empty
// when the vendor defaults are in effect), for persistence.
func (p *Projector) Overrides() (username, password string) {
	return p.usernameOverride, p.passwordOverride
}

// SetTimeout adjusts the per-request HTTP timeout.
func (p *Projector) SetTimeout(timeout time.Duration) {
	p.client.Timeout = timeout
}

// On powers the device on. The device is not re-queried afterwards;
// callers confirm the transition via Status.
func (p *Projector) On() error {
	return p.dispatchNamed(CommandPowerOn)
}

// Off powers the device off.
func (p *Projector) Off() error {
	return p.dispatchNamed(CommandPowerOff)
}

// Toggle issues a non-power command once: feature toggles, one-shot
// features, or a raw cycle press when the caller opts into fallback
// behavior after an exhausted SetSource.
func (p *Projector) Toggle(name string) error {
	spec, ok := p.profile.Catalog.Lookup(name)
	if !ok {
		return NewUnknownCommandError(name, p.vendorID)
	}
	if spec.Category == CategoryPower {
		return NewUnknownCommandError(name, p.vendorID)
	}
	return p.dispatch(spec)
}

// Status queries the device's power state via the vendor probe.
// It never fails: any transport or parse problem reports false.
func (p *Projector) Status() bool {
	username, password := p.Credentials()
	return p.profile.Status(username, password, p.address)
}

// Source queries the device's active input via the vendor probe.
// It never fails: any problem, or standby, reports ("", false).
func (p *Projector) Source() (string, bool) {
	username, password := p.Credentials()
	return p.profile.Source(username, password, p.address)
}

// Targets returns the ordered source labels reachable from the named
// source-cycle command, used to render one button per cyclable target.
func (p *Projector) Targets(name string) ([]string, error) {
	spec, ok := p.profile.Catalog.Lookup(name)
	if !ok || spec.Category != CategorySourceCycle {
		return nil, NewUnknownCommandError(name, p.vendorID)
	}
	return append([]string(nil), spec.Targets...), nil
}

// SetSource selects the input with the given label. Catalogs exposing
// a direct source command under that label dispatch it once. Cycle-only
// catalogs press the advance command and re-probe until the device
// reports the target, bounded by the length of the cycle's target list.
// A label no command can reach fails before any request is issued; an
// exhausted bound fails with a distinct error so callers can opt into
// a raw-press fallback.
func (p *Projector) SetSource(label string) error {
	if spec, ok := p.profile.Catalog.Lookup(label); ok && spec.Category == CategorySource {
		return p.dispatch(spec)
	}

	cycle, ok := p.findCycleFor(label)
	if !ok {
		return NewUnknownTargetError(label, p.vendorID)
	}

	want := normalizeLabel(label)
	budget := len(cycle.Targets)
	for press := 1; press <= budget; press++ {
		if err := p.dispatch(cycle); err != nil {
			return err
		}
		if current, ok := p.Source(); ok && normalizeLabel(current) == want {
			return nil
		}
	}
	return NewSourceExhaustedError(label, budget)
}

// findCycleFor returns the first source-cycle command whose target
// list contains the label, in catalog declaration order.
func (p *Projector) findCycleFor(label string) (CommandSpec, bool) {
	want := normalizeLabel(label)
	for _, spec := range p.profile.Catalog.ByCategory(CategorySourceCycle) {
		for _, target := range spec.Targets {
			if normalizeLabel(target) == want {
				return spec, true
			}
		}
	}
	return CommandSpec{}, false
}

func (p *Projector) dispatchNamed(name string) error {
	spec, ok := p.profile.Catalog.Lookup(name)
	if !ok {
		return NewUnknownCommandError(name, p.vendorID)
	}
	return p.dispatch(spec)
}

// dispatch assembles and issues a command, honoring the SendTwice
// quirk: the second send happens after ResendDelay with a freshly
// computed timestamp for any dynamic parameter.
func (p *Projector) dispatch(spec CommandSpec) error {
	if err := p.send(spec); err != nil {
		return err
	}
	if spec.SendTwice {
		time.Sleep(p.resendDelay)
		return p.send(spec)
	}
	return nil
}

func (p *Projector) send(spec CommandSpec) error {
	target := p.Assemble(spec)

	logging.Debug("dispatching command",
		zap.String("device", p.address),
		zap.String("vendor", p.vendorID),
		zap.String("command", spec.Name),
		zap.String("method", spec.Method),
	)

	req, err := http.NewRequest(spec.Method, target, nil)
	if err != nil {
		return NewNetworkError("failed to create request", err, p.address)
	}
	for key, value := range p.profile.Headers {
		req.Header.Set(key, strings.ReplaceAll(value, "{ip}", p.address))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return NewNetworkError("command request failed", err, p.address)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return NewHTTPError(resp.StatusCode,
			fmt.Sprintf("command %s rejected with status %d", spec.Name, resp.StatusCode))
	}
	return nil
}

// Assemble builds the full request URL for a command: credentials
// embedded per the vendor's basic-auth-in-URL convention, then each
// parameter appended as key+KVJoiner+value+PairJoiner with a single
// trailing PairJoiner stripped. TimeSentinel parameters resolve to the
// call-time timestamp in milliseconds.
func (p *Projector) Assemble(spec CommandSpec) string {
	var b strings.Builder
	b.WriteString("http://")

	username, password := p.Credentials()
	if username != "" {
		b.WriteString(url.UserPassword(username, password).String())
		b.WriteByte('@')
	}

	b.WriteString(p.address)
	b.WriteString(spec.Path)

	for _, param := range spec.Params {
		value := param.Value
		if value == TimeSentinel {
			value = strconv.FormatInt(p.now().UnixMilli(), 10)
		}
		b.WriteString(param.Key)
		b.WriteString(spec.KVJoiner)
		b.WriteString(value)
		b.WriteString(spec.PairJoiner)
	}

	return strings.TrimSuffix(b.String(), spec.PairJoiner)
}

// normalizeLabel folds a source label for comparison: lowercased with
// all whitespace removed, so "HDMI 1" matches "hdmi1".
func normalizeLabel(label string) string {
	return strings.ToLower(strings.ReplaceAll(label, " ", ""))
}
