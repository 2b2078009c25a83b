package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName   = "beamctl"
	prefsFile = "config.yaml"
)

var (
	// Global preferences instance (loaded lazily)
	globalPrefs     *Preferences
	globalPrefsOnce sync.Once
	globalPrefsErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for
// the application, following platform conventions:
//   - Linux: $XDG_CONFIG_HOME/beamctl or $HOME/.config/beamctl
//   - macOS: $HOME/.config/beamctl (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\beamctl
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems: XDG_CONFIG_HOME or $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetPreferencesPath returns the full path to the preferences file.
func GetPreferencesPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, prefsFile), nil
}

// ensureConfigDir creates the configuration directory with user-only
// permissions if it doesn't exist.
func ensureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// LoadPreferences loads preferences from disk. If the file doesn't
// exist, defaults are returned. Thread-safe; repeat calls return the
// same instance.
func LoadPreferences() (*Preferences, error) {
	globalPrefsOnce.Do(func() {
		globalPrefs, globalPrefsErr = loadPreferencesFromDisk()
	})
	return globalPrefs, globalPrefsErr
}

func loadPreferencesFromDisk() (*Preferences, error) {
	prefsPath, err := GetPreferencesPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences path: %w", err)
	}

	if _, err := os.Stat(prefsPath); os.IsNotExist(err) {
		return NewPreferences(), nil
	}

	data, err := os.ReadFile(prefsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences file: %w", err)
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences file: %w", err)
	}

	if prefs.Version != 1 {
		return nil, fmt.Errorf("unsupported preferences version: %d (expected 1)", prefs.Version)
	}

	if prefs.Scan == nil {
		prefs.Scan = NewPreferences().Scan
	}

	return &prefs, nil
}

// Save writes the preferences to disk atomically.
func (p *Preferences) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := ensureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory exists: %w", err)
	}

	prefsPath, err := GetPreferencesPath()
	if err != nil {
		return fmt.Errorf("failed to get preferences path: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	header := []byte(`# Beamctl Preferences
# Scan behavior and panel defaults. The device list itself lives in
# data.json alongside this file.
#
# Location: ` + prefsPath + `

`)
	data = append(header, data...)

	tmpPath := prefsPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary preferences file: %w", err)
	}
	if err := os.Rename(tmpPath, prefsPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save preferences file: %w", err)
	}

	return nil
}
