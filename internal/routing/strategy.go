package routing

// ReroutePendingIndex describes one index that needs shard placements
// computed, decoupled from internal/metadata.IndexMetaData so this package
// has no import-cycle dependency on it — the coordinator translates a
// committed IndexMetaData into this shape before calling Strategy.Reroute.
type ReroutePendingIndex struct {
	Name             string
	NumberOfShards   int
	NumberOfReplicas int
}

// RerouteInput is everything a RoutingStrategy needs to compute placements:
// the nodes available to host shards and the indices whose routing is
// pending (spec.md §4.7: "rebuild the routing table ... invoke the external
// routing strategy route(state_with_new_index) -> RoutingTable").
type RerouteInput struct {
	NodeIDs []string
	Pending []ReroutePendingIndex
	Current Table
}

// Strategy is the external collaborator consumed by the core (spec.md §6):
// a pure function from cluster state to a routing table. Implementations
// must not mutate their input and must be side-effect free.
type Strategy interface {
	Reroute(input RerouteInput) Table
}

// RoundRobinStrategy assigns each shard's primary and replica copies to
// nodes in round-robin order. It is the default, deterministic strategy
// used by cmd/coordinator and by the test suite; a production deployment
// would swap in a strategy that accounts for disk usage, shard count per
// node, and rack/zone awareness, none of which are in scope here (spec.md
// §1: "the shard-allocation strategy ... consumed as a pure function").
type RoundRobinStrategy struct{}

// Reroute implements Strategy.
func (RoundRobinStrategy) Reroute(input RerouteInput) Table {
	table := input.Current
	if len(input.NodeIDs) == 0 {
		for _, pending := range input.Pending {
			table = table.WithIndex(NewEmptyIndexRoutingTable(pending.Name))
		}
		return table
	}

	nodeCursor := 0
	nextNode := func() string {
		n := input.NodeIDs[nodeCursor%len(input.NodeIDs)]
		nodeCursor++
		return n
	}

	for _, pending := range input.Pending {
		irt := IndexRoutingTable{IndexName: pending.Name}
		for shardID := 0; shardID < pending.NumberOfShards; shardID++ {
			irt.Shards = append(irt.Shards, ShardRouting{
				ShardID: shardID,
				Primary: true,
				NodeID:  nextNode(),
				State:   Initializing,
			})
			for replica := 1; replica <= pending.NumberOfReplicas; replica++ {
				irt.Shards = append(irt.Shards, ShardRouting{
					ShardID:   shardID,
					Primary:   false,
					ReplicaID: replica,
					NodeID:    nextNode(),
					State:     Initializing,
				})
			}
		}
		table = table.WithIndex(irt)
	}
	return table
}
