// Package metadata implements the authoritative, versioned snapshot of
// cluster state described in spec.md §3: Settings, IndexMetaData, MetaData,
// ClusterState, and the pure index-name validator (§4.2/C2).
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│              ClusterState                 │
//	│  version int64                            │
//	├──────────────────────────────────────────┤
//	│  MetaData                                 │
//	│    indices map[name]IndexMetaData         │
//	│    aliases map[name]struct{}              │
//	├──────────────────────────────────────────┤
//	│  RoutingTable  (internal/routing)         │
//	├──────────────────────────────────────────┤
//	│  Nodes  (internal/cluster.DiscoveryNodes) │
//	└──────────────────────────────────────────┘
//
// Every value in this package is immutable once built: mutation always
// produces a new value rather than modifying the receiver in place, so that
// a ClusterState snapshot can be shared freely across goroutines without
// locking (the only serialization point is internal/clusterqueue, which owns
// the single writer).
package metadata
