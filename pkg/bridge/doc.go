// Package bridge implements the transport bridge contract of §6.2: the
// small surface the session core uses to hand off one decoded inbound
// envelope and to send one outbound envelope, plus a couple of concrete
// transports (a length-framed stream, for a child-process pipe, and a
// WebSocket transport with bounded-exponential-backoff reconnect).
//
// The core treats the bridge as fire-and-forget: a failed Send is logged
// and the envelope dropped, and a lost WebSocket connection is retried by
// reconnecting; neither is propagated back as a core-visible error (§5,
// suspension points).
package bridge
