package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `{
  "schema": 2,
  "site": "main-building",
  "resolved": [
    {
      "name": "Lecture Hall",
      "ip": "192.168.0.28",
      "projector_type": "epson",
      "mount": "ceiling",
      "serial": "X7TK930041"
    },
    {
      "name": "Auditorium",
      "ip": "192.168.0.31",
      "projector_type": "christie",
      "username": "avteam",
      "password": "hunter2"
    }
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenMissingFileYieldsEmptyStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestOpenMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() should fail on malformed JSON, not discard it")
	}
}

func TestDevicesDecodeKnownFields(t *testing.T) {
	s, err := Open(writeSample(t))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	devices := s.Devices()
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}

	first := devices[0]
	if first.Name != "Lecture Hall" || first.Address != "192.168.0.28" || first.VendorID != "epson" {
		t.Errorf("first device = %+v", first)
	}
	if first.Username != "" || first.Password != "" {
		t.Errorf("first device should have no credential overrides, got %+v", first)
	}

	second := devices[1]
	if second.VendorID != "christie" || second.Username != "avteam" || second.Password != "hunter2" {
		t.Errorf("second device = %+v", second)
	}
}

func TestRoundTripPreservesForeignData(t *testing.T) {
	path := writeSample(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	devices := s.Devices()
	devices[0].Name = "Lecture Hall A"
	devices[0].Username = "override"
	if err := s.Update(0, devices[0]); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}

	// Foreign top-level keys survive.
	if string(doc["schema"]) != "2" {
		t.Errorf("schema = %s, want 2", doc["schema"])
	}
	var site string
	if err := json.Unmarshal(doc["site"], &site); err != nil || site != "main-building" {
		t.Errorf("site = %s, want main-building", doc["site"])
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(doc["resolved"], &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("resolved length = %d, want 2 (entries must not be dropped)", len(entries))
	}

	// Foreign per-entry fields survive an edit of the same entry.
	var mount string
	if err := json.Unmarshal(entries[0]["mount"], &mount); err != nil || mount != "ceiling" {
		t.Errorf("mount = %s, want ceiling", entries[0]["mount"])
	}
	if entries[0]["serial"] == nil {
		t.Error("serial field was dropped on save")
	}

	// The edit itself landed.
	var name, username string
	_ = json.Unmarshal(entries[0]["name"], &name)
	_ = json.Unmarshal(entries[0]["username"], &username)
	if name != "Lecture Hall A" || username != "override" {
		t.Errorf("edited entry = name %q username %q", name, username)
	}
}

func TestUpdateClearsEmptyCredentials(t *testing.T) {
	s, err := Open(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}

	device := s.Devices()[1]
	device.Username = ""
	device.Password = ""
	if err := s.Update(1, device); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	cleared := s.Devices()[1]
	if cleared.Username != "" || cleared.Password != "" {
		t.Errorf("credentials should be cleared, got %+v", cleared)
	}
}

func TestUpdateOutOfRange(t *testing.T) {
	s, err := Open(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Update(5, Device{}); err == nil {
		t.Error("Update() out of range should fail")
	}
	if err := s.Remove(-1); err == nil {
		t.Error("Remove() out of range should fail")
	}
}

func TestAddAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	s.Add(Device{Name: "Lab", Address: "10.0.0.5", VendorID: "epson"})
	s.Add(Device{Name: "Stage", Address: "10.0.0.6", VendorID: "christie", Password: "1978"})
	if err := s.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	devices := reloaded.Devices()
	if len(devices) != 2 || devices[0].Name != "Lab" || devices[1].Password != "1978" {
		t.Errorf("reloaded devices = %+v", devices)
	}

	if err := reloaded.Remove(0); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if got := reloaded.Devices(); len(got) != 1 || got[0].Name != "Stage" {
		t.Errorf("after remove, devices = %+v", got)
	}
}
