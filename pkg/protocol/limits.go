package protocol

// Size caps, in bytes, per §4.1 and §6.1.
const (
	// MaxInboundBytes is the largest payload the codec accepts from the
	// renderer (ready/intent).
	MaxInboundBytes = 65536

	// MaxOutboundBytes is the largest payload the codec will emit to the
	// renderer (render/patch/error).
	MaxOutboundBytes = 1048576

	// warnThreshold is the fraction of a cap at which the codec logs a
	// non-fatal size warning.
	warnThreshold = 0.8
)
