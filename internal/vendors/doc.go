// Package vendors holds the static vendor profiles beamctl ships with:
// the per-family command catalogs, default credentials, and probe
// implementations for Epson and Christie web-control endpoints.
//
// Each vendor lives in its own file and contributes one
// projector.Profile to the package registry, built at initialization
// and exposed read-only through Registry(). Wire-level details (key
// codes, controller registers, scrape offsets) stay inside this
// package; everything above it speaks in catalogs and probes.
//
// # Usage Example
//
//	proj, err := projector.New(vendors.Registry(), vendors.EpsonID, "192.168.0.28")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = proj.On()
package vendors
