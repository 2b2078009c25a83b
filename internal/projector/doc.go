// Package projector implements the uniform command model that maps
// human-facing actions (power on/off, select source, toggle feature)
// onto heterogeneous, vendor-specific HTTP request shapes.
//
// Projectors from different manufacturers expose wildly different
// control APIs: different auth conventions, parameter encodings,
// response formats, and reliability quirks (some commands must be sent
// twice to take effect). This package reduces all of that to three
// ideas:
//
//   - CommandSpec / Catalog: a static, declaration-ordered table
//     describing every authorized action for one projector family -
//     its HTTP method, URL path, ordered parameter list (with a
//     timestamp sentinel), joiner characters, and send-twice flag.
//   - Profile / Registry: one Profile per vendor bundles the catalog
//     with default credentials, static headers, and two probe
//     functions that reduce the vendor's status/source responses to a
//     normalized bool and source label. The Registry resolves vendor
//     identifier strings to Profiles and is immutable after startup.
//   - Projector: the facade external callers use. It holds one
//     device's identity (address, optional credential overrides) and
//     its resolved Profile, assembles and dispatches requests, and
//     implements the bounded press-and-probe loop for devices that
//     only expose a source-advance button.
//
// # Usage Example
//
//	proj, err := projector.New(vendors.Registry(), "epson", "192.168.0.28")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := proj.On(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Probes degrade, never fail: a dead device reads as off/no-source.
//	if proj.Status() {
//	    if source, ok := proj.Source(); ok {
//	        fmt.Printf("powered on, showing %s\n", source)
//	    }
//	}
//
//	// Selecting a source cycles the advance button if the catalog has
//	// no direct command, probing after each press.
//	if err := proj.SetSource("HDMI2"); err != nil {
//	    if projector.IsSourceExhausted(err) {
//	        // caller may opt into a raw cycle press here
//	    }
//	}
//
// # Error Handling
//
// Status and Source never return errors: transport and parse failures
// fold into false / ("", false) so a control surface can render an
// unreachable device as simply "off". Imperative commands (On, Off,
// Toggle, SetSource) surface typed *DeviceError values distinguishing
// transport failures, HTTP rejections, unknown commands/vendors/targets,
// and cycle exhaustion, so callers can revert optimistic UI state or
// opt into fallbacks.
//
// # Concurrency
//
// A Projector instance is intentionally unsynchronized: each physical
// device gets its own unshared instance, calls are synchronous blocking
// HTTP round-trips, and nothing here polls in the background.
package projector
