// Package localstore is the per-node collaborator the coordinator calls to
// materialize an index: LocalIndexStore.create/delete and MapperService.add
// (spec.md §1's "per-node index materialization", treated everywhere else
// in this module as an external interface the core merely consumes).
//
// It follows the teacher's in-memory Store shape — a map guarded by a
// sync.RWMutex, returning defensive copies — generalized from a flat
// key/value store to a store keyed by index name holding per-index mapper
// state.
package localstore
