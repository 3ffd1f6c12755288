// Package routing implements the RoutingTable half of cluster state
// (spec.md §3) and the RoutingStrategy contract the core consumes as a pure
// external collaborator (spec.md §6): Reroute(state) -> RoutingTable.
//
// # Architecture
//
//	┌────────────────────────────────────────────┐
//	│               RoutingTable                  │
//	│  version int64                              │
//	│  indices map[name]IndexRoutingTable         │
//	├────────────────────────────────────────────┤
//	│  IndexRoutingTable                          │
//	│    shards []ShardRouting (primary+replicas) │
//	└────────────────────────────────────────────┘
//
// Grounded on DreamchaserJin-GoDance's cluster/routing package for naming
// (TableRooting/ShardRooting) and on the teacher's ShardRegistry for the
// concurrency-safe, copy-on-read shape. Unlike ShardRegistry this table
// holds no lock of its own — spec.md §4.1 serializes all mutation through
// internal/clusterqueue, so RoutingTable itself is a plain immutable value.
package routing
