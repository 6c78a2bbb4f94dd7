// Package config loads the top-level server configuration: listen
// addresses, port, and the list of configured sources. Loading uses
// spf13/viper so the file format (YAML) and defaults come for free (no
// environment variables are read), the way jacobweinstock/dhcp's go.mod already pulls viper in (there,
// indirectly, through its CLI scaffolding).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the top-level server configuration.
type Config struct {
	Port    uint16         `mapstructure:"port"`
	Listen  []string       `mapstructure:"listen"`
	Sources []SourceConfig `mapstructure:"sources"`
}

// SourceConfig is one entry of the sources list; Config holds the kind's
// raw settings undecoded, since the schema depends on Kind and is decoded
// a second time by the matching source package (e.g. source/rest.FromRaw).
type SourceConfig struct {
	Kind   string                 `mapstructure:"kind"`
	Config map[string]interface{} `mapstructure:"config"`
}

const (
	defaultPort = 67
)

// Load reads and decodes the YAML file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("port", defaultPort)
	v.SetDefault("listen", []string{"0.0.0.0"})

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if len(cfg.Listen) == 0 {
		cfg.Listen = []string{"0.0.0.0"}
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	for i, s := range cfg.Sources {
		if s.Kind == "" {
			return nil, fmt.Errorf("config: sources[%d]: kind is required", i)
		}
	}
	return &cfg, nil
}
