package protocol

import "errors"

// Codec error kinds, per §4.1 and §7. Each is a sentinel so callers can
// distinguish them with errors.Is.
var (
	// ErrFrameTooLarge is returned when a payload exceeds its direction's
	// size cap (MaxInboundBytes or MaxOutboundBytes).
	ErrFrameTooLarge = errors.New("protocol: frame too large")

	// ErrDecode is returned when a payload is not well-formed JSON.
	ErrDecode = errors.New("protocol: decode error")

	// ErrInvalidEnvelope is returned when a payload decodes to valid JSON
	// that is not an object, or whose "t" tag is missing or unrecognized.
	ErrInvalidEnvelope = errors.New("protocol: invalid envelope")

	// ErrEncode is returned when a value handed to EncodeOutbound cannot be
	// marshaled to JSON.
	ErrEncode = errors.New("protocol: encode error")
)
