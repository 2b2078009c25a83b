package projector

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeDevice records every command request and serves a scriptable
// source probe.
type fakeDevice struct {
	mu       sync.Mutex
	requests []*http.Request
	powered  bool
	source   string

	// cycleTargets, when set, makes each command request advance the
	// reported source one step, modeling a physical advance button.
	cycleTargets []string
	step         int

	srv *httptest.Server
}

func newFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()
	d := &fakeDevice{powered: true}
	d.srv = httptest.NewServer(http.HandlerFunc(d.handle))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDevice) handle(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, r.Clone(r.Context()))
	if len(d.cycleTargets) > 0 {
		d.source = d.cycleTargets[d.step%len(d.cycleTargets)]
		d.step++
	}
	w.WriteHeader(http.StatusOK)
}

func (d *fakeDevice) address() string {
	return strings.TrimPrefix(d.srv.URL, "http://")
}

func (d *fakeDevice) requestCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func (d *fakeDevice) request(i int) *http.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[i]
}

func (d *fakeDevice) setSource(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = label
}

func (d *fakeDevice) probeStatus(username, password, address string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.powered
}

func (d *fakeDevice) probeSource(username, password, address string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.powered || d.source == "" {
		return "", false
	}
	return d.source, true
}

func (d *fakeDevice) cycleOnRequest(targets []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cycleTargets = targets
}

func testCatalog() *Catalog {
	return MustCatalog(
		CommandSpec{
			Name:     CommandPowerOn,
			Category: CategoryPower,
			Method:   "GET",
			Path:     "/cmd?",
			Params: []Param{
				{Key: "KEY", Value: "3B"},
				{Key: "_", Value: TimeSentinel},
			},
			KVJoiner:   "=",
			PairJoiner: "&",
		},
		CommandSpec{
			Name:     CommandPowerOff,
			Category: CategoryPower,
			Method:   "GET",
			Path:     "/cmd?",
			Params: []Param{
				{Key: "KEY", Value: "3B"},
				{Key: "_", Value: TimeSentinel},
			},
			KVJoiner:   "=",
			PairJoiner: "&",
			SendTwice:  true,
		},
		CommandSpec{
			Name:       "LAN",
			Category:   CategorySource,
			Method:     "GET",
			Path:       "/cmd?",
			Params:     []Param{{Key: "KEY", Value: "8A"}},
			KVJoiner:   "=",
			PairJoiner: "&",
		},
		CommandSpec{
			Name:       "Video",
			Category:   CategorySourceCycle,
			Method:     "GET",
			Path:       "/cmd?",
			Params:     []Param{{Key: "KEY", Value: "46"}},
			KVJoiner:   "=",
			PairJoiner: "&",
			Targets:    []string{"HDMI1", "HDMI2", "Video"},
		},
		CommandSpec{
			Name:       "Blank",
			Category:   CategoryToggle,
			Method:     "GET",
			Path:       "/cmd?",
			Params:     []Param{{Key: "KEY", Value: "3E"}},
			KVJoiner:   "=",
			PairJoiner: "&",
		},
	)
}

func testRegistry(device *fakeDevice) *Registry {
	return NewRegistry(
		&Profile{
			ID:              "acme",
			DefaultUsername: "admin",
			DefaultPassword: "secret",
			Headers:         map[string]string{"Referer": "http://{ip}/ctl"},
			ControlPage:     "/ctl",
			Catalog:         testCatalog(),
			Status:          device.probeStatus,
			Source:          device.probeSource,
		},
		&Profile{
			ID:              "other",
			DefaultUsername: "user",
			DefaultPassword: "1978",
			ControlPage:     "/other",
			Catalog:         testCatalog(),
			Status:          device.probeStatus,
			Source:          device.probeSource,
		},
	)
}

func newTestProjector(t *testing.T, device *fakeDevice) *Projector {
	t.Helper()
	p, err := New(testRegistry(device), "acme", device.address())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p.resendDelay = 0
	return p
}

func TestNewUnknownVendor(t *testing.T) {
	device := newFakeDevice(t)
	_, err := New(testRegistry(device), "benq", device.address())
	if !IsUnknownVendor(err) {
		t.Errorf("New() error = %v, want unknown-vendor type", err)
	}
}

func TestAssemble(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)
	p.now = func() time.Time { return time.UnixMilli(1700000000123) }

	spec, _ := p.profile.Catalog.Lookup(CommandPowerOn)
	got := p.Assemble(spec)
	want := "http://admin:secret@" + device.address() + "/cmd?KEY=3B&_=1700000000123"
	if got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestAssembleStripsTrailingJoinerOnly(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	spec := CommandSpec{
		Name:   "write",
		Method: "POST",
		Path:   "/cgi?&",
		Params: []Param{
			{Key: "p", Value: "1"},
			{Key: "c", Value: "4627"},
			{Key: "v", Value: "2"},
			{Key: "v", Value: "29"},
		},
		KVJoiner:   ":",
		PairJoiner: ",",
	}
	got := p.Assemble(spec)
	want := "http://admin:secret@" + device.address() + "/cgi?&p:1,c:4627,v:2,v:29"
	if got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestAssembleWithoutCredentials(t *testing.T) {
	device := newFakeDevice(t)
	registry := NewRegistry(&Profile{
		ID:      "bare",
		Catalog: testCatalog(),
		Status:  device.probeStatus,
		Source:  device.probeSource,
	})
	p, err := New(registry, "bare", device.address())
	if err != nil {
		t.Fatal(err)
	}

	spec, _ := p.profile.Catalog.Lookup("LAN")
	got := p.Assemble(spec)
	want := "http://" + device.address() + "/cmd?KEY=8A"
	if got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestOnDispatchesOnce(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	if err := p.On(); err != nil {
		t.Fatalf("On() failed: %v", err)
	}
	if got := device.requestCount(); got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}
}

func TestSendTwiceIssuesTwoRequestsWithFreshTimestamps(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	stamp := int64(1700000000000)
	p.now = func() time.Time {
		stamp++
		return time.UnixMilli(stamp)
	}

	if err := p.Off(); err != nil {
		t.Fatalf("Off() failed: %v", err)
	}
	if got := device.requestCount(); got != 2 {
		t.Fatalf("request count = %d, want 2", got)
	}

	first := device.request(0).URL.Query().Get("_")
	second := device.request(1).URL.Query().Get("_")
	if first == "" || second == "" {
		t.Fatalf("timestamps missing: %q, %q", first, second)
	}
	if first == second {
		t.Errorf("second send reused timestamp %q", first)
	}
}

func TestCommandSendsVendorHeaders(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	if err := p.On(); err != nil {
		t.Fatal(err)
	}
	got := device.request(0).Header.Get("Referer")
	want := "http://" + device.address() + "/ctl"
	if got != want {
		t.Errorf("Referer = %q, want %q", got, want)
	}
}

func TestToggle(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	if err := p.Toggle("Blank"); err != nil {
		t.Fatalf("Toggle(Blank) failed: %v", err)
	}
	if got := device.requestCount(); got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}

	if err := p.Toggle("nope"); !IsUnknownCommand(err) {
		t.Errorf("Toggle(nope) error = %v, want unknown-command type", err)
	}
	if err := p.Toggle(CommandPowerOn); !IsUnknownCommand(err) {
		t.Errorf("Toggle(power_on) error = %v, want unknown-command type", err)
	}
	if got := device.requestCount(); got != 1 {
		t.Errorf("rejected toggles issued requests (count = %d)", got)
	}
}

func TestCommandHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	device := newFakeDevice(t)
	p := newTestProjector(t, device)
	p.SetAddress(strings.TrimPrefix(srv.URL, "http://"))

	err := p.On()
	if !IsHTTPError(err) {
		t.Fatalf("On() error = %v, want HTTP type", err)
	}
	var devErr *DeviceError
	if !errors.As(err, &devErr) || devErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %v, want 403", err)
	}
}

func TestCommandNetworkError(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadAddr := strings.TrimPrefix(dead.URL, "http://")
	dead.Close()
	p.SetAddress(deadAddr)

	if err := p.On(); !IsNetworkError(err) {
		t.Errorf("On() error = %v, want network type", err)
	}
}

func TestProbesDelegateWithEffectiveCredentials(t *testing.T) {
	device := newFakeDevice(t)
	var gotUser, gotPass string
	registry := NewRegistry(&Profile{
		ID:              "acme",
		DefaultUsername: "admin",
		DefaultPassword: "secret",
		Catalog:         testCatalog(),
		Status: func(username, password, address string) bool {
			gotUser, gotPass = username, password
			return true
		},
		Source: device.probeSource,
	})
	p, err := New(registry, "acme", device.address())
	if err != nil {
		t.Fatal(err)
	}

	if !p.Status() {
		t.Error("Status() = false, want true")
	}
	if gotUser != "admin" || gotPass != "secret" {
		t.Errorf("probe credentials = %q/%q, want vendor defaults", gotUser, gotPass)
	}

	p.SetCredentials("av", "override")
	p.Status()
	if gotUser != "av" || gotPass != "override" {
		t.Errorf("probe credentials = %q/%q, want overrides", gotUser, gotPass)
	}
}

func TestSetSourceDirectCommand(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	if err := p.SetSource("LAN"); err != nil {
		t.Fatalf("SetSource(LAN) failed: %v", err)
	}
	if got := device.requestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 direct dispatch", got)
	}
}

func TestSetSourceCyclesUntilProbeMatches(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)
	device.cycleOnRequest([]string{"HDMI1", "HDMI2", "Video"})

	if err := p.SetSource("HDMI2"); err != nil {
		t.Fatalf("SetSource(HDMI2) failed: %v", err)
	}
	if got := device.requestCount(); got != 2 {
		t.Errorf("request count = %d, want exactly 2 cycle presses", got)
	}
}

func TestSetSourceMatchesLabelLoosely(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)
	device.cycleOnRequest([]string{"HDMI1", "HDMI2", "Video"})

	if err := p.SetSource("hdmi 2"); err != nil {
		t.Fatalf("SetSource(hdmi 2) failed: %v", err)
	}
	if got := device.requestCount(); got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
}

func TestSetSourceUnknownLabel(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	err := p.SetSource("SDI")
	if !IsUnknownTarget(err) {
		t.Fatalf("SetSource(SDI) error = %v, want unknown-target type", err)
	}
	if got := device.requestCount(); got != 0 {
		t.Errorf("unknown label issued %d requests, want 0", got)
	}
}

func TestSetSourceExhaustsCycleBudget(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)
	// The probe never reports the target; the device is stuck.
	device.setSource("HDMI1")

	err := p.SetSource("Video")
	if !IsSourceExhausted(err) {
		t.Fatalf("SetSource(Video) error = %v, want source-exhausted type", err)
	}
	if got := device.requestCount(); got != 3 {
		t.Errorf("request count = %d, want presses bounded by target list (3)", got)
	}
}

func TestTargets(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	targets, err := p.Targets("Video")
	if err != nil {
		t.Fatalf("Targets(Video) failed: %v", err)
	}
	want := []string{"HDMI1", "HDMI2", "Video"}
	if len(targets) != len(want) {
		t.Fatalf("Targets(Video) = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("Targets(Video)[%d] = %q, want %q", i, targets[i], want[i])
		}
	}

	if _, err := p.Targets("LAN"); !IsUnknownCommand(err) {
		t.Errorf("Targets(LAN) error = %v, want unknown-command type", err)
	}
}

func TestSetVendor(t *testing.T) {
	device := newFakeDevice(t)
	p := newTestProjector(t, device)

	if err := p.SetVendor("other"); err != nil {
		t.Fatalf("SetVendor(other) failed: %v", err)
	}
	if p.VendorID() != "other" {
		t.Errorf("VendorID() = %q, want other", p.VendorID())
	}
	username, password := p.Credentials()
	if username != "user" || password != "1978" {
		t.Errorf("Credentials() = %q/%q, want new vendor defaults", username, password)
	}

	if err := p.SetVendor("benq"); !IsUnknownVendor(err) {
		t.Errorf("SetVendor(benq) error = %v, want unknown-vendor type", err)
	}
	if p.VendorID() != "other" {
		t.Error("failed SetVendor changed the active vendor")
	}
}
