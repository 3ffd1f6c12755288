package metadata

import (
	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/routing"
)

// ClusterState is the versioned, immutable snapshot of spec.md §3: a
// MetaData value, a RoutingTable, and a Nodes value. Every create-index
// task run by internal/clusterqueue takes a ClusterState and returns a new
// one; the two never share mutable substructure.
type ClusterState struct {
	version      int64
	metaData     MetaData
	routingTable routing.Table
	nodes        *cluster.DiscoveryNodes
}

// NewClusterState builds the initial ClusterState for a cluster with the
// given node set.
func NewClusterState(nodes *cluster.DiscoveryNodes) ClusterState {
	return ClusterState{
		version:      1,
		metaData:     NewMetaData(),
		routingTable: routing.NewTable(),
		nodes:        nodes,
	}
}

// Version returns the cluster state version — monotonically increasing
// across every commit (spec.md §3).
func (c ClusterState) Version() int64 { return c.version }

// MetaData returns the metadata half of this snapshot.
func (c ClusterState) MetaData() MetaData { return c.metaData }

// RoutingTable returns the routing half of this snapshot.
func (c ClusterState) RoutingTable() routing.Table { return c.routingTable }

// Nodes returns the node set of this snapshot.
func (c ClusterState) Nodes() *cluster.DiscoveryNodes { return c.nodes }

// WithMetaData returns a copy of c with its metadata replaced and the
// version incremented. Used for the first of the two commits in spec.md
// §4.7's two-phase design ("the metadata change is published first").
func (c ClusterState) WithMetaData(md MetaData) ClusterState {
	return ClusterState{
		version:      c.version + 1,
		metaData:     md,
		routingTable: c.routingTable,
		nodes:        c.nodes,
	}
}

// WithRoutingTable returns a copy of c with its routing table replaced and
// the version incremented. Used for the second commit in spec.md §4.7.
func (c ClusterState) WithRoutingTable(rt routing.Table) ClusterState {
	return ClusterState{
		version:      c.version + 1,
		metaData:     c.metaData,
		routingTable: rt,
		nodes:        c.nodes,
	}
}

// Equal reports whether two ClusterState values are value-equal on the
// fields that matter for spec.md §8 invariant 2 ("the cluster state after
// settlement is value-equal to the state before submission"): version,
// metadata version, and routing version. A full deep comparison isn't
// needed because every mutation increments one of these.
func (c ClusterState) Equal(other ClusterState) bool {
	return c.version == other.version &&
		c.metaData.version == other.metaData.version &&
		c.routingTable.Version() == other.routingTable.Version()
}
