// Package protocol implements the JSON envelope wire contract between a
// Projection session core and its renderer.
//
// # Wire Format
//
// Every message is a single length-framed JSON object:
//
//	┌───────────────────────────────┬─────────────────────────────┐
//	│ Payload Length (4 bytes, BE)  │ Payload (UTF-8 JSON)         │
//	└───────────────────────────────┴─────────────────────────────┘
//
// Framing is the transport bridge's job (see pkg/bridge); this package
// encodes/decodes the JSON payload and enforces the inbound (65,536 byte)
// and outbound (1,048,576 byte) size caps.
//
// # Envelope Types
//
//   - ready: renderer announces (or re-announces) a session id.
//   - intent: renderer reports a user action or routing request.
//   - render: core publishes a full view-model snapshot.
//   - patch: core publishes a coalesced batch of structural patch ops.
//   - error: the core side (in practice the bridge) reports a
//     protocol-level fault to the renderer.
package protocol
