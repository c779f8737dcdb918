package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the remote case service.
type APIConfig struct {
	// BaseURL is the root URL of the ResQLink backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// GeoConfig holds settings for the best-effort geolocation services.
type GeoConfig struct {
	// ReverseURL is the root URL of the reverse-geocoding service.
	ReverseURL string `mapstructure:"reverse_url" yaml:"reverse_url"`

	// PositionURL is the root URL of the IP-position service used to
	// approximate the device location. Empty disables the lookup.
	PositionURL string `mapstructure:"position_url" yaml:"position_url"`
}

// MapConfig holds the default map viewport.
type MapConfig struct {
	CenterLat float64 `mapstructure:"center_lat" yaml:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng" yaml:"center_lng"`
	Zoom      int     `mapstructure:"zoom" yaml:"zoom"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// RefreshIntervalSec is how often the case list refreshes in the
	// background. Zero disables background refresh.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API       APIConfig     `mapstructure:"api" yaml:"api"`
	Geo       GeoConfig     `mapstructure:"geo" yaml:"geo"`
	Map       MapConfig     `mapstructure:"map" yaml:"map"`
	Display   DisplayConfig `mapstructure:"display" yaml:"display"`
	CachePath string        `mapstructure:"cache_path" yaml:"cache_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/resqlink/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "resqlink", "config.yaml")
}

// defaultCachePath returns the default location of the snapshot cache.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cases.db")
	}
	return filepath.Join(home, ".config", "resqlink", "cases.db")
}

// defaultAppConfig returns a sensible default configuration. The map
// defaults center on India, matching the service's primary coverage area.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL: "https://resqlink-backend-owxa.onrender.com",
		},
		Geo: GeoConfig{
			ReverseURL:  "https://nominatim.openstreetmap.org",
			PositionURL: "http://ip-api.com",
		},
		Map: MapConfig{
			CenterLat: 20.5937,
			CenterLng: 78.9629,
			Zoom:      5,
		},
		Display: DisplayConfig{
			RefreshIntervalSec: 120,
		},
		CachePath: defaultCachePath(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", "https://resqlink-backend-owxa.onrender.com")
	v.SetDefault("geo.reverse_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geo.position_url", "http://ip-api.com")
	v.SetDefault("map.center_lat", 20.5937)
	v.SetDefault("map.center_lng", 78.9629)
	v.SetDefault("map.zoom", 5)
	v.SetDefault("display.refresh_interval_sec", 120)
	v.SetDefault("cache_path", defaultCachePath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("geo", cfg.Geo)
	v.Set("map", cfg.Map)
	v.Set("display", cfg.Display)
	v.Set("cache_path", cfg.CachePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
