package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir is the Pebble store directory. Empty means DefaultDataDir.
	DataDir string `json:"dataDir"`
	// HTTPAddr is the query/ingest API listen address.
	HTTPAddr string `json:"httpAddr"`
	// Fsync is the storage durability mode: always|interval|never.
	Fsync string `json:"fsync"`
	// FlushIntervalMs is the write-buffer commit period.
	FlushIntervalMs int `json:"flushIntervalMs"`
	// SweepIntervalMs is the full pruning sweep period.
	SweepIntervalMs int `json:"sweepIntervalMs"`
	// DisableLogging switches off all chat logging while keeping the query
	// side serving already-stored data.
	DisableLogging bool `json:"disableLogging"`
	// PrivateRooms lists rooms whose activity never updates last-seen
	// records.
	PrivateRooms []string `json:"privateRooms"`
	// LogLevel and LogFormat configure process logging.
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		Fsync:           "always",
		FlushIntervalMs: 5 * 60 * 1000,
		SweepIntervalMs: 24 * 60 * 60 * 1000,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads configuration from a JSON file layered over defaults. If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if ext := filepath.Ext(path); ext != "" && ext != ".json" {
		return Config{}, fmt.Errorf("config: unsupported file type %q; use JSON", ext)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
