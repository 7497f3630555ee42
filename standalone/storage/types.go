package storage

// Config represents the frontend configuration stored in config.json
type Config struct {
	Version int           `json:"version"`
	Audio   AudioConfig   `json:"audio"`
	Window  WindowConfig  `json:"window"`
	Console ConsoleConfig `json:"console"`
}

// AudioConfig contains audio-related settings
type AudioConfig struct {
	Volume float64 `json:"volume"` // 0.0-2.0, default 1.0
	Muted  bool    `json:"muted"`
}

// WindowConfig contains window size and mode
type WindowConfig struct {
	Scale      int  `json:"scale"` // Integer multiple of the device screen, 1-8
	Fullscreen bool `json:"fullscreen"`
}

// ConsoleConfig controls forwarding of standard input to the VM console
type ConsoleConfig struct {
	Enabled bool `json:"enabled"` // Default: true
}

const (
	MinWindowScale = 1
	MaxWindowScale = 8
	MaxVolume      = 2.0
)

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Audio: AudioConfig{
			Volume: 1.0,
		},
		Window: WindowConfig{
			Scale: 2,
		},
		Console: ConsoleConfig{
			Enabled: true,
		},
	}
}
