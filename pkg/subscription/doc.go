// Package subscription implements the subscription syncer described in
// §4.7: it tracks the set of pub/sub topics an active screen currently
// declares and calls a host-provided hook as that set changes.
package subscription
