package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Storage configuration
	Storage StorageConfig `json:"storage"`

	// Game configuration
	Game GameConfig `json:"game"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`
}

// StorageConfig selects and configures the snapshot storage backend
type StorageConfig struct {
	// Backend: "file", "memory" or "sqlite"
	Backend string `json:"backend"`

	// Directory for the file backend
	Dir string `json:"dir"`

	// DSN for the sqlite backend
	DSN string `json:"dsn"`
}

// GameConfig holds simulation specific configuration
type GameConfig struct {
	// Default number of teams when a request omits it
	DefaultTeams int `json:"default_teams"`

	// Default number of rounds when a request omits it
	DefaultRounds int `json:"default_rounds"`

	// Starting cash per company
	StartingCapital float64 `json:"starting_capital"`

	// Starting production capacity per company (units per quarter)
	StartingCapacity float64 `json:"starting_capacity"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "./data/games",
			DSN:     "./data/games.db",
		},
		Game: GameConfig{
			DefaultTeams:     5,
			DefaultRounds:    10,
			StartingCapital:  500000000,
			StartingCapacity: 500000,
		},
	}
}

// LoadConfig loads configuration from a file, creating it with defaults
// when it doesn't exist yet
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(config)
}
