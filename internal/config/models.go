package config

// Preferences holds user-tunable behavior that is not part of the
// device list itself: where the device list lives, how network scans
// run, and whether the panel probes devices on startup.
type Preferences struct {
	// Version is the preferences schema version (currently 1).
	Version int `yaml:"version"`

	// DataFile overrides the device list location. Empty means the
	// default data.json next to this file.
	DataFile string `yaml:"data_file,omitempty"`

	// Scan controls network discovery.
	Scan *ScanPrefs `yaml:"scan,omitempty"`

	// ProbeOnStartup makes the panel probe every device's power state
	// when it opens instead of waiting for a manual refresh.
	ProbeOnStartup bool `yaml:"probe_on_startup"`
}

// ScanPrefs configures the discovery sweep.
type ScanPrefs struct {
	// Subnet pins the sweep to one CIDR block (e.g. "192.168.0.0/24").
	// Empty means sweep every local /24.
	Subnet string `yaml:"subnet,omitempty"`

	// TimeoutSeconds bounds the whole sweep. Zero means the default.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// MDNS enables the zeroconf browse alongside the HTTP sweep.
	MDNS bool `yaml:"mdns"`
}

// NewPreferences returns preferences with defaults applied.
func NewPreferences() *Preferences {
	return &Preferences{
		Version: 1,
		Scan: &ScanPrefs{
			TimeoutSeconds: 10,
			MDNS:           true,
		},
		ProbeOnStartup: true,
	}
}
