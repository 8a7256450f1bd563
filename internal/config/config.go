// Package config provides YAML-based configuration loading for the objman
// command line tool.
package config

// Config contains all objman configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Index   IndexConfig   `yaml:"index"`
}

// LogConfig controls the logger handed to every Context.
type LogConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	Timestamps bool   `yaml:"timestamps"`
	Prefix     string `yaml:"prefix"`
}

// StorageConfig locates the catalog history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // ~ is expanded
}

// IndexConfig holds defaults for the index diagnostics command.
type IndexConfig struct {
	RandomKeys int   `yaml:"random_keys"`
	Seed       int64 `yaml:"seed"`
}
