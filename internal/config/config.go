// Package config loads process configuration for the sequent engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the engine settings. The nesting limits are applied once at
// startup and never change afterwards.
type Config struct {
	// MaxLabelLength bounds sequence label length.
	MaxLabelLength int `mapstructure:"max_label_length"`

	// MaxIndentationLevel bounds nesting depth of IF/TRY/WHILE.
	MaxIndentationLevel int `mapstructure:"max_indentation_level"`

	// DBPath is the SQLite file receiving execution events. Empty disables
	// the event log.
	DBPath string `mapstructure:"db_path"`

	// SequenceDir is the default directory for stored sequences.
	SequenceDir string `mapstructure:"sequence_dir"`

	// LogLevel is a zerolog level name.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from sequent.yaml (current directory or
// ~/.config/sequent) and SEQUENT_* environment variables, falling back to
// defaults. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("sequent")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "sequent"))
	}

	v.SetEnvPrefix("SEQUENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("max_label_length", 128)
	v.SetDefault("max_indentation_level", 10)
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("sequence_dir", "")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxLabelLength < 1 {
		return nil, fmt.Errorf("max_label_length must be at least 1")
	}
	if cfg.MaxIndentationLevel < 1 {
		return nil, fmt.Errorf("max_indentation_level must be at least 1")
	}

	return &cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "share", "sequent", "sequent.db")
}
