package bridge

import "github.com/isaiahdw/projection/pkg/protocol"

// InboundHandler is invoked once per decoded inbound envelope the bridge
// receives from the renderer. The core registers exactly one handler per
// session (§6.2, §5 "Shared resources" — a bridge belongs to one session).
type InboundHandler func(protocol.Envelope)

// Bridge is the transport bridge contract the session core depends on. The
// core never sees framing, reconnects, or socket errors: Send is
// fire-and-forget from its perspective (failures are logged by the
// implementation, never returned up through the core).
type Bridge interface {
	// Send encodes and transmits one outbound envelope. Implementations
	// must not block the caller on network I/O for long; a disconnected
	// bridge should queue-and-drop or fail fast rather than stall the
	// session actor.
	Send(env protocol.Envelope) error

	// Close tears down the bridge and stops any reconnect loop.
	Close() error
}
