package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"
	ConfigPathEnv     = "CONFIG_PATH"
)

type Loader struct {
	configPath string
}

func NewLoader(configPath string) *Loader {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return &Loader{configPath: configPath}
}

// NewLoaderFromEnv reads the config path from CONFIG_PATH.
func NewLoaderFromEnv() *Loader {
	return NewLoader(os.Getenv(ConfigPathEnv))
}

// Load reads, validates and defaults the configuration. A missing file at the
// default path yields the defaults; a missing explicit path is an error.
func (l *Loader) Load() (*Config, error) {
	c, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) && l.configPath == DefaultConfigPath {
			cfg := NewConfig()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, NewReadError(l.configPath, err)
	}
	cfg := NewConfig()
	err = yaml.Unmarshal(c, cfg)
	if err != nil {
		return nil, NewParseError(l.configPath, err)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (l *Loader) getConfigPath() string {
	return l.configPath
}
