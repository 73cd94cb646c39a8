// Package batcher implements the patch batcher of §4.8: it coalesces
// enqueued patch ops by path (latest write wins, stable first-occurrence
// ordering), merges acknowledgement tokens, and decides when to flush
// based on a batch window and a pending-op ceiling.
package batcher
