// Package config loads the optional YAML file named by PTX_CONFIG (spec
// §6), supplying defaults for output format, limit, and the remote source
// collaborators' connection parameters.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config mirrors the documented PTX_CONFIG shape (spec §6).
type Config struct {
	Defaults   Defaults   `mapstructure:"defaults"`
	AWS        AWS        `mapstructure:"aws"`
	GCP        GCP        `mapstructure:"gcp"`
	Kubernetes Kubernetes `mapstructure:"kubernetes"`
	Aliases    map[string]string `mapstructure:"aliases"`
}

type Defaults struct {
	Output string `mapstructure:"output"`
	Limit  uint64 `mapstructure:"limit"`
}

type AWS struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

type GCP struct {
	Project string `mapstructure:"project"`
}

type Kubernetes struct {
	Namespace string `mapstructure:"namespace"`
}

// EnvVar names the environment variable that points at an optional config file.
const EnvVar = "PTX_CONFIG"

// Load reads PTX_CONFIG if set, applying the documented defaults first.
// An unset or empty PTX_CONFIG is not an error: Load returns the default
// Config unchanged. A PTX_CONFIG naming a file that cannot be read or
// parsed is an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("defaults.output", "table")
	v.SetDefault("defaults.limit", uint64(0))
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.region", "")
	v.SetDefault("gcp.project", "")
	v.SetDefault("kubernetes.namespace", "")

	path := os.Getenv(EnvVar)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveAlias expands a query-string alias defined under `aliases`,
// returning the alias's expansion and true if name matches one, otherwise
// name unchanged and false.
func (c *Config) ResolveAlias(name string) (string, bool) {
	if c == nil || c.Aliases == nil {
		return name, false
	}
	if expansion, ok := c.Aliases[name]; ok {
		return expansion, true
	}
	return name, false
}
