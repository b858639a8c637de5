package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays KIDA_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("KIDA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("KIDA_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("KIDA_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("KIDA_FLUSH_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FlushIntervalMs = n
		}
	}
	if v := os.Getenv("KIDA_SWEEP_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SweepIntervalMs = n
		}
	}
	if v := os.Getenv("KIDA_DISABLE_LOGGING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DisableLogging = b
		}
	}
	if v := os.Getenv("KIDA_PRIVATE_ROOMS"); v != "" {
		parts := strings.Split(v, ",")
		cfg.PrivateRooms = nil
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.PrivateRooms = append(cfg.PrivateRooms, p)
			}
		}
	}
	if v := os.Getenv("KIDA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KIDA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
