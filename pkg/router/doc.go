// Package router implements the route table and navigation stack described
// in §4.6: a static list of route definitions, keyed by name, plus a stack
// of active nav entries with push/pop/patch semantics and routing-boundary
// enforcement.
//
// The router table itself is immutable and safe to share across sessions;
// a Nav value is per-session mutable state.
package router
