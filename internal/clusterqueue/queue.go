package clusterqueue

import (
	"context"

	"github.com/dreamware/indexcoord/internal/metadata"
)

// Task mutates a ClusterState and returns the next one. Tasks must be pure:
// no task may retain or mutate the ClusterState it was given, since the
// queue may still hand that same value to concurrent readers.
type Task func(metadata.ClusterState) metadata.ClusterState

type submission struct {
	task Task
	done chan metadata.ClusterState
}

// Queue runs Tasks one at a time against a shared ClusterState, in the
// order they're submitted (spec.md §4.1's single-writer mutation queue).
type Queue struct {
	submit chan submission
	read   chan chan metadata.ClusterState
	done   chan struct{}
}

// New starts a Queue's run loop seeded with the given initial state. Call
// Close to stop the loop once the caller is done with the queue.
func New(initial metadata.ClusterState) *Queue {
	q := &Queue{
		submit: make(chan submission),
		read:   make(chan chan metadata.ClusterState),
		done:   make(chan struct{}),
	}
	go q.run(initial)
	return q
}

func (q *Queue) run(state metadata.ClusterState) {
	for {
		select {
		case s := <-q.submit:
			state = s.task(state)
			s.done <- state
		case out := <-q.read:
			out <- state
		case <-q.done:
			return
		}
	}
}

// Submit enqueues a task and blocks until it has run, returning the
// resulting ClusterState. It returns ctx.Err() if ctx is canceled before
// the task is scheduled.
func (q *Queue) Submit(ctx context.Context, task Task) (metadata.ClusterState, error) {
	done := make(chan metadata.ClusterState, 1)
	select {
	case q.submit <- submission{task: task, done: done}:
	case <-ctx.Done():
		return metadata.ClusterState{}, ctx.Err()
	case <-q.done:
		return metadata.ClusterState{}, context.Canceled
	}
	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return metadata.ClusterState{}, ctx.Err()
	}
}

// Current returns the ClusterState as of the most recently completed task,
// without enqueuing a mutation. Used by read endpoints that don't need to
// wait behind pending writes.
func (q *Queue) Current() metadata.ClusterState {
	out := make(chan metadata.ClusterState, 1)
	q.read <- out
	return <-out
}

// Close stops the queue's run loop. Pending Submit calls that haven't been
// scheduled yet will observe context.Canceled.
func (q *Queue) Close() {
	close(q.done)
}
