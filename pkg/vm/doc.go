// Package vm implements the view-model tree, RFC 6901 JSON Pointer paths,
// and RFC 6902 patch-op builders used to describe and update a session's
// rendered UI state.
//
// A VM is a JSON-like tree: maps, slices, and scalars. Diff compares two
// VM trees and returns the minimal set of add/remove/replace operations
// needed to transform one into the other, either over the whole tree or
// scoped to a caller-supplied set of paths.
package vm
