// Package config loads the control plane's cluster-wide defaults: the
// default shard/replica counts applied when a CreateIndexRequest omits them,
// the peer-acknowledgment timeout, the mapping root directory read by
// internal/mapping, and the HTTP listen address of cmd/coordinator. cmd/node
// does not use this package; it reads its settings from plain environment
// variables.
//
// Loading goes through github.com/spf13/viper: a YAML file plus
// INDEXCOORD_-prefixed environment overrides, unmarshalled into the Config
// struct below. This mirrors infinilabs-framework's core/config pattern of
// unpacking a typed struct from a generic config source, without carrying
// over that framework's hot-reload/fsnotify machinery, which this control
// plane's fixed startup configuration does not need.
package config
