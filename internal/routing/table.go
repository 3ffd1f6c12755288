package routing

// ShardState is the lifecycle phase of a single shard copy.
type ShardState string

const (
	// Initializing means the shard copy has been routed but has not yet
	// reported ready.
	Initializing ShardState = "INITIALIZING"
	// Started means the shard copy is serving.
	Started ShardState = "STARTED"
	// Unassigned means the shard copy has no node yet.
	Unassigned ShardState = "UNASSIGNED"
)

// ShardRouting places one shard copy (primary or a numbered replica) on a
// node.
type ShardRouting struct {
	NodeID    string     `json:"node_id"`
	State     ShardState `json:"state"`
	ShardID   int        `json:"shard_id"`
	Primary   bool       `json:"primary"`
	ReplicaID int        `json:"replica_id"` // 0 for the primary
}

// IndexRoutingTable is the full set of shard copies for one index.
type IndexRoutingTable struct {
	IndexName string
	Shards    []ShardRouting
}

// NewEmptyIndexRoutingTable builds an IndexRoutingTable with no shard
// placements. RoundRobinStrategy uses it for pending indices when no node is
// available to host shards.
func NewEmptyIndexRoutingTable(indexName string) IndexRoutingTable {
	return IndexRoutingTable{IndexName: indexName, Shards: nil}
}

// PrimaryShardIDs returns the distinct primary shard IDs in this table, for
// tests and diagnostics.
func (t IndexRoutingTable) PrimaryShardIDs() []int {
	seen := map[int]struct{}{}
	var ids []int
	for _, s := range t.Shards {
		if s.Primary {
			if _, ok := seen[s.ShardID]; !ok {
				seen[s.ShardID] = struct{}{}
				ids = append(ids, s.ShardID)
			}
		}
	}
	return ids
}

// Table is the RoutingTable of spec.md §3: per-index shard placements for
// the whole cluster. Immutable — every mutating method returns a copy.
type Table struct {
	version int64
	indices map[string]IndexRoutingTable
}

// NewTable returns an empty RoutingTable.
func NewTable() Table {
	return Table{indices: map[string]IndexRoutingTable{}}
}

// Version returns the routing table version.
func (t Table) Version() int64 { return t.version }

// Index returns the IndexRoutingTable for name, and whether it exists.
func (t Table) Index(name string) (IndexRoutingTable, bool) {
	irt, ok := t.indices[name]
	return irt, ok
}

// HasIndex reports whether name has a routing entry — used by the
// pre-flight check in spec.md §4.6 step 1 ("if either the current routing
// table or metadata already contains request.index_name").
func (t Table) HasIndex(name string) bool {
	_, ok := t.indices[name]
	return ok
}

// Indices returns every index's routing table.
func (t Table) Indices() map[string]IndexRoutingTable {
	out := make(map[string]IndexRoutingTable, len(t.indices))
	for k, v := range t.indices {
		out[k] = v
	}
	return out
}

// WithIndex returns a copy of t with irt added (or replacing an existing
// entry of the same name).
func (t Table) WithIndex(irt IndexRoutingTable) Table {
	next := Table{
		version: t.version + 1,
		indices: make(map[string]IndexRoutingTable, len(t.indices)+1),
	}
	for k, v := range t.indices {
		next.indices[k] = v
	}
	next.indices[irt.IndexName] = irt
	return next
}
