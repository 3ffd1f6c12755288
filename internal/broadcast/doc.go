// Package broadcast fans a create-index notification out to every peer
// node concurrently (spec.md §4.6 step 7, §4.7's "on_node_index_created"
// callback), built on golang.org/x/sync/errgroup the way
// internal/coordinator's old health-check loop fanned out to nodes, but
// gathering per-peer results instead of discarding them.
package broadcast
