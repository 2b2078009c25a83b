package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/muurk/beamctl/internal/config"
)

// JSON keys beamctl owns inside each device entry. Anything else in an
// entry belongs to other tooling sharing the file and is carried
// through writes untouched.
const (
	keyName     = "name"
	keyAddress  = "ip"
	keyVendor   = "projector_type"
	keyUsername = "username"
	keyPassword = "password"

	resolvedKey = "resolved"
	dataFile    = "data.json"
)

// Device is the editable view of one entry in the device list.
type Device struct {
	Name     string
	Address  string
	VendorID string

	// Username and Password are per-device credential overrides.
	// Empty means the vendor defaults apply and no key is persisted.
	Username string
	Password string
}

// Store reads and writes the shared device list. The file is a JSON
// document whose "resolved" array holds one object per device; the
// document may carry top-level keys and per-entry fields this program
// does not understand, all of which survive a load/save round trip.
type Store struct {
	mu   sync.Mutex
	path string

	// doc holds the top-level document keys other than "resolved".
	doc map[string]json.RawMessage

	// entries holds the raw "resolved" objects in file order.
	entries []map[string]json.RawMessage
}

// DefaultPath returns the device list location inside the beamctl
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dataFile), nil
}

// Open loads the device list at path. A missing file yields an empty
// store; a malformed file is an error, never silently discarded.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc:  make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read device list: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w", err)
	}
	if raw, ok := s.doc[resolvedKey]; ok {
		if err := json.Unmarshal(raw, &s.entries); err != nil {
			return nil, fmt.Errorf("failed to parse device entries: %w", err)
		}
		delete(s.doc, resolvedKey)
	}

	return s, nil
}

// Path returns the file the store reads from and writes to.
func (s *Store) Path() string { return s.path }

// Len returns the number of device entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Devices returns the editable view of every entry, in file order.
func (s *Store) Devices() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices := make([]Device, len(s.entries))
	for i, entry := range s.entries {
		devices[i] = Device{
			Name:     rawString(entry[keyName]),
			Address:  rawString(entry[keyAddress]),
			VendorID: rawString(entry[keyVendor]),
			Username: rawString(entry[keyUsername]),
			Password: rawString(entry[keyPassword]),
		}
	}
	return devices
}

// Update writes the editable fields of entry i back into its raw
// object, leaving unrecognized fields alone. Empty credentials remove
// the stored override keys.
func (s *Store) Update(i int, device Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("device index %d out of range (have %d)", i, len(s.entries))
	}

	entry := s.entries[i]
	entry[keyName] = mustRaw(device.Name)
	entry[keyAddress] = mustRaw(device.Address)
	entry[keyVendor] = mustRaw(device.VendorID)
	setOrClear(entry, keyUsername, device.Username)
	setOrClear(entry, keyPassword, device.Password)
	return nil
}

// Add appends a new entry for the device.
func (s *Store) Add(device Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := map[string]json.RawMessage{
		keyName:    mustRaw(device.Name),
		keyAddress: mustRaw(device.Address),
		keyVendor:  mustRaw(device.VendorID),
	}
	setOrClear(entry, keyUsername, device.Username)
	setOrClear(entry, keyPassword, device.Password)
	s.entries = append(s.entries, entry)
}

// Remove deletes entry i.
func (s *Store) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("device index %d out of range (have %d)", i, len(s.entries))
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// Save writes the device list back to disk atomically, re-attaching
// any unrecognized top-level keys.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries
	if entries == nil {
		entries = []map[string]json.RawMessage{}
	}
	rawEntries, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal device entries: %w", err)
	}

	doc := make(map[string]json.RawMessage, len(s.doc)+1)
	for key, value := range s.doc {
		doc[key] = value
	}
	doc[resolvedKey] = rawEntries

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal device list: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary device list: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save device list: %w", err)
	}
	return nil
}

// rawString decodes a raw JSON string field; non-string or absent
// values read as empty.
func rawString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func mustRaw(s string) json.RawMessage {
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return raw
}

func setOrClear(entry map[string]json.RawMessage, key, value string) {
	if value == "" {
		delete(entry, key)
		return
	}
	entry[key] = mustRaw(value)
}
