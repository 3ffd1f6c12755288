// Package coordinator implements create-index orchestration: pre-flight
// validation, mapping assembly, local materialization, metadata commit,
// peer-acknowledgment tracking, and the routing commit that follows
// settlement.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────┐
//	│                     Coordinator                         │
//	├────────────────────────────────────────────────────────┤
//	│  CreateIndex(req, listener)                             │
//	│    └─ submit task 1 on clusterqueue.Queue               │
//	│         validate → assemble mappings → materialize      │
//	│         locally → commit MetaData                       │
//	│    └─ arm AckTracker (registered with NotifyRegistry)   │
//	│         or settle immediately if expected == 0          │
//	│    └─ on settlement (ack or timeout), submit task 2     │
//	│         rebuild RoutingTable via routing.Strategy        │
//	│         commit → listener.OnResponse(...)                │
//	└────────────────────────────────────────────────────────┘
//
// Every state mutation goes through an internal/clusterqueue.Queue so
// concurrent create-index calls never race on the same ClusterState. The
// only components here that carry their own mutable state are the
// NotifyRegistry (a concurrent set of listeners, independent of cluster
// state) and each in-flight AckTracker (an atomic counter plus a
// compare-and-swap settlement latch, scoped to one create-index call).
package coordinator
