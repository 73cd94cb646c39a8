// Package session implements the per-connection session core of §4.9: it
// owns sid/rev, drives the router or a single screen module through the
// capability dispatcher, composes the view-model, diffs it against the
// previous snapshot, and hands the resulting ops to a patch batcher bound
// to a transport bridge.
//
// A Session is constructed once per UI connection and lives until Close.
// It is not safe for concurrent use from multiple goroutines: the actor
// model described in §5 assumes a single-threaded mailbox driving
// HandleReady/HandleIntent serially.
package session
