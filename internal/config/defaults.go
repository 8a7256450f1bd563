package config

import (
	_ "embed"
)

//go:embed defaults/objman.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Timestamps: true,
			Prefix:     "objman",
		},
		Storage: StorageConfig{
			DBPath: "~/.objman/history.db",
		},
		Index: IndexConfig{
			RandomKeys: 32,
			Seed:       1,
		},
	}
}
