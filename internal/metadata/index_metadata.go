package metadata

// IndexMetaData is the immutable (name, settings, mappings) triple for a
// single index (spec.md §3). Once built it is never mutated; every
// modification (adding a canonicalized mapping, for instance) produces a new
// value.
type IndexMetaData struct {
	name     string
	version  int64
	settings Settings
	mappings map[string]string // type -> source document
}

// NewIndexMetaData builds an IndexMetaData. mappings is copied.
func NewIndexMetaData(name string, settings Settings, mappings map[string]string) IndexMetaData {
	return IndexMetaData{
		name:     name,
		version:  1,
		settings: settings,
		mappings: copyMappings(mappings),
	}
}

func copyMappings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Name returns the index name.
func (i IndexMetaData) Name() string { return i.name }

// Version returns the metadata version: 1 when built, incremented by each
// WithMappings call.
func (i IndexMetaData) Version() int64 { return i.version }

// Settings returns the index's resolved settings.
func (i IndexMetaData) Settings() Settings { return i.settings }

// NumberOfShards is derived from settings (spec.md §3).
func (i IndexMetaData) NumberOfShards() int { return i.settings.NumberOfShards() }

// NumberOfReplicas is derived from settings (spec.md §3).
func (i IndexMetaData) NumberOfReplicas() int { return i.settings.NumberOfReplicas() }

// Mapping returns the source document for a type name, and whether it is
// present.
func (i IndexMetaData) Mapping(typeName string) (string, bool) {
	v, ok := i.mappings[typeName]
	return v, ok
}

// Mappings returns a copy of the full type -> source map.
func (i IndexMetaData) Mappings() map[string]string {
	return copyMappings(i.mappings)
}

// WithMappings returns a copy of this IndexMetaData with its mapping sources
// replaced and its version incremented. The coordinator does not call it: it
// builds its IndexMetaData from already-canonical sources.
func (i IndexMetaData) WithMappings(mappings map[string]string) IndexMetaData {
	return IndexMetaData{
		name:     i.name,
		version:  i.version + 1,
		settings: i.settings,
		mappings: copyMappings(mappings),
	}
}
