// Package discovery finds projectors on the local network.
//
// Two mechanisms feed the same Candidate type:
//
//   - An HTTP sweep fingerprints every host on the local /24 subnets
//     (or a configured subnet) by requesting each vendor's control
//     page with a short timeout. A 200 or a 401 on the right path
//     identifies the family.
//   - An mDNS browse (grandcat/zeroconf) watches _http._tcp
//     announcements and keeps the ones whose host names look like
//     projectors, confirming each by fingerprint.
//
// Both are best-effort: hosts that don't answer are silently skipped,
// and results carry no credentials. Adding a candidate to the device
// list is the caller's decision.
package discovery
