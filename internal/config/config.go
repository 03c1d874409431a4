package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"staffdash/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version int          `toml:"version"`
	LogFile string       `toml:"log_file"`
	API     APISettings  `toml:"api"`
	List    ListSettings `toml:"list"`
	UI      UISettings   `toml:"ui"`
	Auth    AuthSettings `toml:"auth"`
}

// APISettings describes how the remote API is reached
type APISettings struct {
	BaseURL           string   `toml:"base_url"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// ListSettings tunes every list view
type ListSettings struct {
	PageSize        int      `toml:"page_size"`
	PageSizeOptions []int    `toml:"page_size_options"`
	PollInterval    Duration `toml:"poll_interval"`
	RetryInterval   Duration `toml:"retry_interval"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowCharts bool   `toml:"show_charts"`
	ExportDir  string `toml:"export_dir"`
}

// AuthSettings holds the persisted session
type AuthSettings struct {
	Token string `toml:"token,omitempty"`
}

// Duration is a time.Duration written as "60s" in the config file
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/staffdash/config.toml or the closest
// equivalent on this platform
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "staffdash", "config.toml")
}

// NewConfigService creates a config service backed by the default path
func NewConfigService() ConfigService {
	return NewConfigServiceAt(DefaultPath())
}

// NewConfigServiceAt creates a config service backed by path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration from file, falling back to defaults when the
// file does not exist yet
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Publish ConfigLoaded event if bus is available
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{BaseURL: cfg.API.BaseURL})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	// Publish ConfigSaved event if bus is available
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a session token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		LogFile: "staffdash.log",
		API: APISettings{
			BaseURL:           "http://localhost:8080",
			Timeout:           Duration{15 * time.Second},
			RequestsPerSecond: 10,
		},
		List: ListSettings{
			PageSize:        10,
			PageSizeOptions: []int{10, 20, 50},
			PollInterval:    Duration{60 * time.Second},
			RetryInterval:   Duration{5 * time.Second},
		},
		UI: UISettings{
			ShowCharts: true,
			ExportDir:  ".",
		},
	}
}

// MaxPageSize is the largest page the API serves
const MaxPageSize = 100

// validPageSizes keeps the options the API accepts, dropping repeats
func validPageSizes(sizes []int) []int {
	out := make([]int, 0, len(sizes))
	seen := make(map[int]bool, len(sizes))
	for _, n := range sizes {
		if n <= 0 || n > MaxPageSize || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// normalize repairs values a hand-edited file may have broken
func (c *Config) normalize() {
	def := DefaultConfig()
	c.List.PageSizeOptions = validPageSizes(c.List.PageSizeOptions)
	if len(c.List.PageSizeOptions) == 0 {
		c.List.PageSizeOptions = def.List.PageSizeOptions
	}
	if c.List.PageSize <= 0 || c.List.PageSize > MaxPageSize {
		c.List.PageSize = c.List.PageSizeOptions[0]
	}
	if c.List.PollInterval.Duration <= 0 {
		c.List.PollInterval = def.List.PollInterval
	}
	if c.List.RetryInterval.Duration <= 0 {
		c.List.RetryInterval = def.List.RetryInterval
	}
	if c.API.Timeout.Duration <= 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.API.RequestsPerSecond <= 0 {
		c.API.RequestsPerSecond = def.API.RequestsPerSecond
	}
}
