package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the cluster-wide defaults consumed by the create-index
// coordinator (spec.md §4.6 step 3 and §6's recognized settings table).
type Config struct {
	// CoordinatorAddr is the coordinator's HTTP listen address.
	CoordinatorAddr string `mapstructure:"coordinator_addr"`
	// MappingRoot is the filesystem root inspected by internal/mapping (§4.3).
	MappingRoot string `mapstructure:"mapping_root"`
	// DefaultNumberOfShards is applied by cmd/coordinator when a create-index
	// request omits index.number_of_shards (§3, §6).
	DefaultNumberOfShards int `mapstructure:"default_number_of_shards"`
	// DefaultNumberOfReplicas is applied by cmd/coordinator when a
	// create-index request omits index.number_of_replicas (§3, §6).
	DefaultNumberOfReplicas int `mapstructure:"default_number_of_replicas"`
	// DefaultAckTimeout is used by cmd/coordinator when a create-index
	// request does not set its own timeout (§3: "defaults to 5 s").
	DefaultAckTimeout time.Duration `mapstructure:"default_ack_timeout"`
}

// Default returns the configuration baked into the binary when no file or
// environment override is present, matching the defaults named in spec.md.
func Default() Config {
	return Config{
		CoordinatorAddr:         ":8080",
		MappingRoot:             "./config",
		DefaultNumberOfShards:   5,
		DefaultNumberOfReplicas: 1,
		DefaultAckTimeout:       5 * time.Second,
	}
}

// Load reads a configuration from an optional file path plus
// INDEXCOORD_-prefixed environment variables, overlaid on Default().
// An empty path skips the file and loads defaults plus env only.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("INDEXCOORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("coordinator_addr", cfg.CoordinatorAddr)
	v.SetDefault("mapping_root", cfg.MappingRoot)
	v.SetDefault("default_number_of_shards", cfg.DefaultNumberOfShards)
	v.SetDefault("default_number_of_replicas", cfg.DefaultNumberOfReplicas)
	v.SetDefault("default_ack_timeout", cfg.DefaultAckTimeout)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
