package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetConfigDirHonorsXDG(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() failed: %v", err)
	}
	want := filepath.Join(tmpDir, appName)
	if dir != want {
		t.Errorf("GetConfigDir() = %q, want %q", dir, want)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	prefs := NewPreferences()
	prefs.DataFile = "/srv/projectors/data.json"
	prefs.Scan.Subnet = "192.168.0.0/24"
	prefs.Scan.MDNS = false
	prefs.ProbeOnStartup = false

	if err := prefs.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := loadPreferencesFromDisk()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.DataFile != prefs.DataFile {
		t.Errorf("DataFile = %q, want %q", loaded.DataFile, prefs.DataFile)
	}
	if loaded.Scan.Subnet != "192.168.0.0/24" {
		t.Errorf("Scan.Subnet = %q, want pinned subnet", loaded.Scan.Subnet)
	}
	if loaded.Scan.MDNS {
		t.Error("Scan.MDNS should round-trip false")
	}
	if loaded.ProbeOnStartup {
		t.Error("ProbeOnStartup should round-trip false")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	prefs, err := loadPreferencesFromDisk()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if prefs.Version != 1 {
		t.Errorf("default Version = %d, want 1", prefs.Version)
	}
	if prefs.Scan == nil || !prefs.Scan.MDNS {
		t.Error("defaults should enable mDNS")
	}
	if !prefs.ProbeOnStartup {
		t.Error("defaults should probe on startup")
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, prefsFile), []byte("version: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := loadPreferencesFromDisk()
	if err == nil || !strings.Contains(err.Error(), "unsupported preferences version") {
		t.Errorf("load error = %v, want version rejection", err)
	}
}

func TestSaveWritesHeaderComment(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if err := NewPreferences().Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, appName, prefsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Beamctl Preferences") {
		t.Error("saved file should start with the header comment")
	}
}
