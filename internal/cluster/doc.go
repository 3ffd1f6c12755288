// Package cluster provides the node-membership types and the small HTTP/JSON
// helpers used by every component that talks to a peer over the wire: the
// coordinator announcing a newly created index, and nodes calling back to
// report that they have materialized it.
//
// # Architecture
//
//	              ┌──────────────┐
//	              │ Coordinator  │
//	              │              │
//	              │ DiscoveryNodes│
//	              └──────┬───────┘
//	                     │ PostJSON / GetJSON
//	      ┌──────────────┼──────────────┐
//	      │              │              │
//	┌─────▼─────┐  ┌─────▼─────┐  ┌─────▼─────┐
//	│  Node 1   │  │  Node 2   │  │  Node 3   │
//	└───────────┘  └───────────┘  └───────────┘
//
// NodeInfo identifies a single cluster member. DiscoveryNodes is the set of
// all known members, distinguishing the local node the way spec.md §3
// requires ("Nodes value ... one distinguished as local").
package cluster
