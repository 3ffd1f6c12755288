package metadata

// MetaData is the immutable collection of all indices and aliases known to
// the cluster (spec.md §3). "At most one IndexMetaData per name" is enforced
// by construction here. "The set of aliases is disjoint from the set of index
// names" is not checked by WithIndex or WithAlias; the coordinator's
// pre-flight rejects a new index whose name HasAlias reports.
type MetaData struct {
	version int64
	indices map[string]IndexMetaData
	aliases map[string]struct{}
}

// NewMetaData returns an empty MetaData.
func NewMetaData() MetaData {
	return MetaData{
		indices: map[string]IndexMetaData{},
		aliases: map[string]struct{}{},
	}
}

// Version returns the metadata version, incremented on every mutation.
func (m MetaData) Version() int64 { return m.version }

// Index returns the IndexMetaData for name, and whether it exists.
func (m MetaData) Index(name string) (IndexMetaData, bool) {
	idx, ok := m.indices[name]
	return idx, ok
}

// HasIndex reports whether an index with this name already exists.
func (m MetaData) HasIndex(name string) bool {
	_, ok := m.indices[name]
	return ok
}

// HasAlias reports whether name is a registered alias.
func (m MetaData) HasAlias(name string) bool {
	_, ok := m.aliases[name]
	return ok
}

// Indices returns every index currently in the metadata.
func (m MetaData) Indices() map[string]IndexMetaData {
	out := make(map[string]IndexMetaData, len(m.indices))
	for k, v := range m.indices {
		out[k] = v
	}
	return out
}

// Aliases returns the full alias set.
func (m MetaData) Aliases() map[string]struct{} {
	out := make(map[string]struct{}, len(m.aliases))
	for k := range m.aliases {
		out[k] = struct{}{}
	}
	return out
}

// WithIndex returns a copy of m with idx added (or replacing an existing
// entry of the same name). Invariant: at most one IndexMetaData per name
// (spec.md §3) — this always holds because indices is a map keyed by name.
func (m MetaData) WithIndex(idx IndexMetaData) MetaData {
	next := MetaData{
		version: m.version + 1,
		indices: make(map[string]IndexMetaData, len(m.indices)+1),
		aliases: m.aliases,
	}
	for k, v := range m.indices {
		next.indices[k] = v
	}
	next.indices[idx.Name()] = idx
	return next
}

// WithAlias returns a copy of m with alias added to the alias set.
func (m MetaData) WithAlias(alias string) MetaData {
	next := MetaData{
		version: m.version + 1,
		indices: m.indices,
		aliases: make(map[string]struct{}, len(m.aliases)+1),
	}
	for k := range m.aliases {
		next.aliases[k] = struct{}{}
	}
	next.aliases[alias] = struct{}{}
	return next
}
