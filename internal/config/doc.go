// Package config manages beamctl's user preferences file.
//
// Preferences live in an OS-appropriate configuration directory
// (config.yaml under ~/.config/beamctl on Linux/macOS, %LOCALAPPDATA%
// on Windows) and cover scan behavior and panel defaults. The device
// list itself is a separate JSON file managed by the store package;
// keeping the two apart means hand-edits to one never corrupt the
// other.
//
// Writes are atomic (temp file plus rename) so a crash mid-save never
// leaves a truncated file behind.
package config
