package storage

import (
	"encoding/json"
	"fmt"
)

// configKeys lists the dotted-path keys whose absence triggers a default.
var configKeys = map[string][]string{
	"":        {"version"},
	"audio":   {"volume", "muted"},
	"window":  {"scale", "fullscreen"},
	"console": {"enabled"},
}

// detectPresentKeys returns the set of dotted-path keys (e.g.
// "audio.volume") explicitly present in the JSON.
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	for section, keys := range configKeys {
		fields := raw
		prefix := ""
		if section != "" {
			sectionRaw, ok := raw[section]
			if !ok {
				continue
			}
			fields = nil
			if json.Unmarshal(sectionRaw, &fields) != nil {
				continue
			}
			prefix = section + "."
		}
		for _, k := range keys {
			if _, ok := fields[k]; ok {
				present[prefix+k] = true
			}
		}
	}

	return present
}

// ApplyMissingDefaults sets default values for config fields that are absent
// from the JSON file. Intentional zero values (volume=0, console disabled)
// are preserved.
func ApplyMissingDefaults(config *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		config.Version = defaults.Version
	}
	if !presentKeys["audio.volume"] {
		config.Audio.Volume = defaults.Audio.Volume
	}
	if !presentKeys["audio.muted"] {
		config.Audio.Muted = defaults.Audio.Muted
	}
	if !presentKeys["window.scale"] {
		config.Window.Scale = defaults.Window.Scale
	}
	if !presentKeys["window.fullscreen"] {
		config.Window.Fullscreen = defaults.Window.Fullscreen
	}
	if !presentKeys["console.enabled"] {
		config.Console.Enabled = defaults.Console.Enabled
	}
}

// ValidateConfig checks all config fields against valid ranges and returns
// human-readable error descriptions. An empty slice means the config is valid.
func ValidateConfig(config *Config) []string {
	var errors []string

	if config.Version != 1 {
		errors = append(errors, fmt.Sprintf("version: %d (valid: 1)", config.Version))
	}

	if config.Audio.Volume < 0 || config.Audio.Volume > MaxVolume {
		errors = append(errors, fmt.Sprintf("audio.volume: %.2f (valid: 0.0-%.1f)", config.Audio.Volume, MaxVolume))
	}

	if config.Window.Scale < MinWindowScale || config.Window.Scale > MaxWindowScale {
		errors = append(errors, fmt.Sprintf("window.scale: %d (valid: %d-%d)", config.Window.Scale, MinWindowScale, MaxWindowScale))
	}

	return errors
}

// CorrectConfig resets any invalid fields to their defaults from DefaultConfig().
// Valid fields are preserved.
func CorrectConfig(config *Config) *Config {
	defaults := DefaultConfig()

	if config.Version != 1 {
		config.Version = defaults.Version
	}

	if config.Audio.Volume < 0 || config.Audio.Volume > MaxVolume {
		config.Audio.Volume = defaults.Audio.Volume
	}

	if config.Window.Scale < MinWindowScale || config.Window.Scale > MaxWindowScale {
		config.Window.Scale = defaults.Window.Scale
	}

	return config
}
