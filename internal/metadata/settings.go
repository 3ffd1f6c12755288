package metadata

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Recognized settings keys consumed directly by the core (spec.md §6).
const (
	SettingNumberOfShards   = "index.number_of_shards"
	SettingNumberOfReplicas = "index.number_of_replicas"

	// DefaultNumberOfShards and DefaultNumberOfReplicas are the cluster
	// defaults applied when a request omits the corresponding setting.
	DefaultNumberOfShards   = 5
	DefaultNumberOfReplicas = 1
)

// Settings is an immutable mapping from dotted string keys to typed scalar
// values. All typed accessors parse the underlying string representation on
// read; callers that need repeated access to the same key should cache the
// parsed value themselves.
type Settings struct {
	values map[string]string
}

// NewSettings builds a Settings value from a plain string map. The input map
// is copied; later mutation of it does not affect the returned Settings.
func NewSettings(values map[string]string) Settings {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Settings{values: copied}
}

// EmptySettings is the zero-value Settings: no keys set.
func EmptySettings() Settings {
	return Settings{values: map[string]string{}}
}

// Get returns the raw string value for key and whether it was present.
func (s Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string value for key, or def if absent.
func (s Settings) GetString(key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// GetInt returns the integer value for key, or def if absent or unparsable.
func (s Settings) GetInt(key string, def int) int {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns the boolean value for key, or def if absent or unparsable.
func (s Settings) GetBool(key string, def bool) bool {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetDuration returns the duration value for key, or def if absent or
// unparsable. Values use Go duration syntax ("5s", "1h30m").
func (s Settings) GetDuration(key string, def time.Duration) time.Duration {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// GetBytes returns the byte-size value for key (e.g. "10MB", "1GiB"), or def
// if absent or unparsable.
func (s Settings) GetBytes(key string, def uint64) uint64 {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	n, err := humanize.ParseBytes(v)
	if err != nil {
		return def
	}
	return n
}

// NumberOfShards returns index.number_of_shards, defaulting to
// DefaultNumberOfShards.
func (s Settings) NumberOfShards() int {
	return s.GetInt(SettingNumberOfShards, DefaultNumberOfShards)
}

// NumberOfReplicas returns index.number_of_replicas, defaulting to
// DefaultNumberOfReplicas.
func (s Settings) NumberOfReplicas() int {
	return s.GetInt(SettingNumberOfReplicas, DefaultNumberOfReplicas)
}

// Keys returns every key currently set, in no particular order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// AsMap returns a copy of the underlying string map.
func (s Settings) AsMap() map[string]string {
	return NewSettings(s.values).values
}

// OverrideWith layers other on top of s: keys present in other win, keys
// only in s are kept (spec.md §3: "request settings override cluster
// defaults"). Neither receiver nor argument is mutated.
func (s Settings) OverrideWith(other Settings) Settings {
	merged := make(map[string]string, len(s.values)+len(other.values))
	for k, v := range s.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return Settings{values: merged}
}

// WithDefault returns a copy of s with key set to value if key is not
// already present, used to apply cluster-wide defaults (number_of_shards,
// number_of_replicas) without overriding an explicit request value.
func (s Settings) WithDefault(key, value string) Settings {
	if _, ok := s.values[key]; ok {
		return s
	}
	merged := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		merged[k] = v
	}
	merged[key] = value
	return Settings{values: merged}
}
