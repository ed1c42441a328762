// Package config loads, defaults, and validates the catalogue's runtime
// configuration. Settings come from a YAML file, REGCAT_* environment
// variables, or both, with the environment winning on conflict.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "REGCAT"

// newViper returns a viper instance wired for this project's conventions:
// YAML files, automatic REGCAT_* env binding, and dots in nested keys mapped
// to underscores, so "database.host" answers to REGCAT_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// finalize turns viper state into a validated Config with defaults applied.
func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML file at configPath, layers REGCAT_* environment
// overrides on top, fills in defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read config file %q: %w", configPath, err)
	}
	return finalize(v)
}

// LoadFromEnv builds the Config from REGCAT_* environment variables alone,
// the usual path for container deployments that ship no config file.
// Variables follow REGCAT_<SECTION>_<FIELD>, e.g. REGCAT_REDIS_ADDR.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

// Watch re-parses configPath on every change and hands valid results to
// onChange. Changes that fail to parse or validate are dropped silently, so a
// bad edit never replaces a working configuration. Watch returns immediately;
// viper runs the watcher goroutine.
//
// Intended for settings that tolerate mid-flight changes, such as log level
// and NLP rate limits. The caller decides which fields are safe to apply.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Callers load first via Load; a read failure here just means the first
	// change event does the initial parse.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := finalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is Load for main(): any failure panics, since a server without
// configuration has nothing useful left to do.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
