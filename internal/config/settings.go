package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied when neither flag, env var nor settings.json provide a value
const (
	DefaultErrorClearDelay       = 10
	DefaultRequestTimeoutSeconds = 30
	DefaultRequestsPerSecond     = 5.0
	DefaultServerURL             = "http://42.192.76.234:8081"
)

// KeyBindingValue supports "a" or ["up", "k"] in JSON
type KeyBindingValue []string

// UnmarshalJSON implements custom unmarshaling for KeyBindingValue
func (kv *KeyBindingValue) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*kv = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str != "" {
		*kv = []string{str}
	}
	return nil
}

// MarshalJSON implements custom marshaling for KeyBindingValue
func (kv KeyBindingValue) MarshalJSON() ([]byte, error) {
	if len(kv) == 1 {
		return json.Marshal(kv[0])
	}
	return json.Marshal([]string(kv))
}

// KeyBindingsConfig holds custom key binding overrides as a map.
// Keys are binding names (e.g., "upload", "help"), values are the key sequences.
type KeyBindingsConfig map[string]KeyBindingValue

// Validate checks for configuration errors in key bindings.
// The validNames parameter should come from ui.GetValidKeyNames().
func (k KeyBindingsConfig) Validate(validNames []string) error {
	if k == nil {
		return nil
	}

	validSet := make(map[string]bool, len(validNames))
	for _, name := range validNames {
		validSet[name] = true
	}

	keyToAction := make(map[string]string)

	for name, keys := range k {
		if !validSet[name] {
			return fmt.Errorf("unknown key binding '%s'", name)
		}
		if len(keys) == 0 {
			continue // Not configured, will use default
		}
		for _, key := range keys {
			if key == "" {
				return fmt.Errorf("key binding for '%s' contains empty value", name)
			}
			if existing, found := keyToAction[key]; found {
				return fmt.Errorf("key '%s' is assigned to both '%s' and '%s'", key, existing, name)
			}
			keyToAction[key] = name
		}
	}

	return nil
}

// Settings represents the structure of ~/.dailyup/settings.json
type Settings struct {
	Debug                  *bool             `json:"debug,omitempty"`
	ErrorClearDelay        *int              `json:"error_clear_delay,omitempty"`
	InsecurePersistSession *bool             `json:"insecure_persist_session,omitempty"`
	Keys                   KeyBindingsConfig `json:"keys,omitempty"`
	MaxLogFiles            *int              `json:"max_log_files,omitempty"`
	OverwriteDefault       *bool             `json:"overwrite_default,omitempty"`
	ReclassifyPolicy       string            `json:"reclassify_policy,omitempty"`
	RequestTimeoutSeconds  *int              `json:"request_timeout_seconds,omitempty"`
	RequestsPerSecond      *float64          `json:"requests_per_second,omitempty"`
	ServerURL              string            `json:"server_url,omitempty"`
	Username               string            `json:"username,omitempty"`
}

// EffectiveServerURL returns the configured server URL or the default
func (s *Settings) EffectiveServerURL() string {
	if s != nil && strings.TrimSpace(s.ServerURL) != "" {
		return strings.TrimRight(strings.TrimSpace(s.ServerURL), "/")
	}
	return DefaultServerURL
}

// RequestTimeout returns the configured HTTP timeout
func (s *Settings) RequestTimeout() time.Duration {
	if s != nil && s.RequestTimeoutSeconds != nil && *s.RequestTimeoutSeconds > 0 {
		return time.Duration(*s.RequestTimeoutSeconds) * time.Second
	}
	return DefaultRequestTimeoutSeconds * time.Second
}

// RateLimit returns the configured outgoing request rate
func (s *Settings) RateLimit() float64 {
	if s != nil && s.RequestsPerSecond != nil && *s.RequestsPerSecond > 0 {
		return *s.RequestsPerSecond
	}
	return DefaultRequestsPerSecond
}

// PersistSession reports whether the user opted into durable session storage
func (s *Settings) PersistSession() bool {
	return s != nil && s.InsecurePersistSession != nil && *s.InsecurePersistSession
}

// LoadSettings loads settings from $DAILYUP_HOME/settings.json (or ~/.dailyup/settings.json if not set)
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to $DAILYUP_HOME/settings.json
func SaveSettings(settings *Settings) error {
	return SaveSettingsTo(GetSettingsPath(), settings)
}

// SaveSettingsTo saves settings to an explicit path
func SaveSettingsTo(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// RememberLogin stores the last used server URL and username.
// The password is never written.
func RememberLogin(serverURL, username string) error {
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	settings.ServerURL = strings.TrimRight(serverURL, "/")
	settings.Username = username
	return SaveSettings(settings)
}
