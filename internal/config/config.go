// Package config provides configuration loading for anchorctl.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Bidon15/anchorkit/anchoring"
	"github.com/Bidon15/anchorkit/launcher"
)

// Config holds all configuration for the anchorctl tool.
type Config struct {
	Schema   SchemaConfig   `mapstructure:"schema"`
	Artifact ArtifactConfig `mapstructure:"artifact"`
}

// SchemaConfig holds schema registry settings.
type SchemaConfig struct {
	URL     string        `mapstructure:"url"`     // empty means built-in descriptors
	Timeout time.Duration `mapstructure:"timeout"`
	Reload  bool          `mapstructure:"reload"`
}

// ArtifactConfig identifies the anchoring service artifact that specs
// are built for.
type ArtifactConfig struct {
	Runtime uint32 `mapstructure:"runtime"`
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Artifact returns the launcher artifact descriptor.
func (c ArtifactConfig) Artifact() launcher.Artifact {
	return launcher.Artifact{
		RuntimeID: c.Runtime,
		Name:      c.Name,
		Version:   c.Version,
	}
}

// Load reads configuration from files and environment variables. An
// explicit path pins the config file; otherwise the usual locations
// are searched and a missing file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("anchorctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/anchorkit")
	}

	// Enable environment variable override
	v.SetEnvPrefix("ANCHORCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Explicitly bind schema environment variables (nested struct issue with viper)
	v.BindEnv("schema.url", "ANCHORCTL_SCHEMA_URL")
	v.BindEnv("schema.timeout", "ANCHORCTL_SCHEMA_TIMEOUT")
	v.BindEnv("schema.reload", "ANCHORCTL_SCHEMA_RELOAD")

	// Read config file (optional unless pinned)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	// Schema registry defaults: no URL means specs are built from the
	// bundled descriptor set.
	v.SetDefault("schema.url", "")
	v.SetDefault("schema.timeout", "15s")
	v.SetDefault("schema.reload", false)

	// Artifact defaults name the anchoring service of the Rust runtime.
	v.SetDefault("artifact.runtime", 0)
	v.SetDefault("artifact.name", anchoring.ArtifactName)
	v.SetDefault("artifact.version", anchoring.DefaultVersion)
}
