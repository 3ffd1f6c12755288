// Package clusterqueue serializes every mutation of the cluster state
// behind a single goroutine, so concurrent create-index requests never race
// on the same ClusterState value (spec.md §4.1, §8 invariant 1: "no two
// tasks observe overlapping ClusterState values").
//
// Tasks are submitted as pure functions ClusterState -> ClusterState; the
// queue runs them one at a time, in submission order, and republishes the
// result for the next reader. The run loop is a single goroutine draining
// a channel of submissions, so it alone ever holds the current state.
package clusterqueue
