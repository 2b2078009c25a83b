// Package store manages the shared projector device list (data.json).
//
// The file is owned jointly with other AV tooling: beamctl edits only
// the fields it understands (name, ip, projector_type, credential
// overrides) and carries everything else through a load/save
// round trip - unknown top-level keys, unknown per-entry
// fields, and entry order all survive. Writes are atomic via temp file
// plus rename.
package store
