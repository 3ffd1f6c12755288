// Package timer provides a cancelable one-shot timer used to bound how long
// the coordinator waits for peer acknowledgments before settling a
// create-index request on its own (the "timeout bound" of a create-index
// round).
//
// It wraps time.AfterFunc rather than a raw time.Timer because callers need
// to both cancel the fire and be safe calling Stop after the timer has
// already fired — a bare time.Timer's Stop/Reset pairing is easy to misuse
// under concurrent access, so the pattern below folds the guard into the
// type instead of leaving it to every caller.
package timer
