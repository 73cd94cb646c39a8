package protocol

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/isaiahdw/projection/pkg/vm"
)

// Codec encodes and decodes JSON envelopes, enforcing the per-direction
// size caps of §4.1. The zero value is ready to use; Logger defaults to
// slog.Default() when nil.
type Codec struct {
	Logger *slog.Logger
}

// NewCodec returns a Codec that logs size warnings through logger. A nil
// logger falls back to slog.Default().
func NewCodec(logger *slog.Logger) *Codec {
	return &Codec{Logger: logger}
}

func (c *Codec) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Codec) checkSize(label string, n, cap int) error {
	if n > cap {
		return fmt.Errorf("%w: %s payload is %d bytes, cap is %d", ErrFrameTooLarge, label, n, cap)
	}
	if float64(n) >= float64(cap)*warnThreshold {
		c.logger().Warn("protocol: payload approaching size cap",
			"direction", label, "bytes", n, "cap", cap)
	}
	return nil
}

// DecodeInbound decodes a renderer-to-core payload, enforcing
// MaxInboundBytes and restricting the result to Ready or Intent.
func (c *Codec) DecodeInbound(data []byte) (Envelope, error) {
	if err := c.checkSize("inbound", len(data), MaxInboundBytes); err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	switch env.EnvelopeType() {
	case TypeReady, TypeIntent:
		return env, nil
	default:
		return nil, fmt.Errorf("%w: %q is not an inbound envelope type", ErrInvalidEnvelope, env.EnvelopeType())
	}
}

// DecodeOutbound decodes a core-to-renderer payload, enforcing
// MaxOutboundBytes and restricting the result to Render, Patch, or Error.
// Bridges and tests use this to parse what the core has produced.
func (c *Codec) DecodeOutbound(data []byte) (Envelope, error) {
	if err := c.checkSize("outbound", len(data), MaxOutboundBytes); err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	switch env.EnvelopeType() {
	case TypeRender, TypePatch, TypeError:
		return env, nil
	default:
		return nil, fmt.Errorf("%w: %q is not an outbound envelope type", ErrInvalidEnvelope, env.EnvelopeType())
	}
}

// EncodeOutbound serializes env (Render, Patch, or Error) to JSON,
// enforcing MaxOutboundBytes.
func (c *Codec) EncodeOutbound(env Envelope) ([]byte, error) {
	obj, err := toWireMap(env)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := c.checkSize("outbound", len(data), MaxOutboundBytes); err != nil {
		return nil, err
	}
	return data, nil
}

// EncodeInbound serializes env (Ready or Intent), enforcing
// MaxInboundBytes. Provided for bridges and tests that need to produce
// inbound traffic symmetrically with EncodeOutbound.
func (c *Codec) EncodeInbound(env Envelope) ([]byte, error) {
	obj, err := toWireMap(env)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := c.checkSize("inbound", len(data), MaxInboundBytes); err != nil {
		return nil, err
	}
	return data, nil
}

type peek struct {
	T string `json:"t"`
}

// decodeEnvelope parses data into its concrete Envelope type, independent
// of direction. Callers enforce direction-appropriate type restrictions.
func decodeEnvelope(data []byte) (Envelope, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		if _, isSyntax := isWellFormedJSON(data); !isSyntax {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidEnvelope)
	}

	var p peek
	if err := json.Unmarshal(data, &p); err != nil || p.T == "" {
		return nil, fmt.Errorf("%w: missing or malformed \"t\" tag", ErrInvalidEnvelope)
	}

	switch Type(p.T) {
	case TypeReady:
		var e Ready
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return e, nil
	case TypeIntent:
		var e Intent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return e, nil
	case TypeRender:
		var e Render
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return e, nil
	case TypePatch:
		var e Patch
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return e, nil
	case TypeError:
		var e Error
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized envelope type %q", ErrInvalidEnvelope, p.T)
	}
}

// isWellFormedJSON distinguishes "valid JSON, wrong shape" from "not JSON at
// all" so decodeEnvelope can choose between ErrInvalidEnvelope and
// ErrDecode.
func isWellFormedJSON(data []byte) (any, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return v, true
}

// toWireMap builds the ordered-field-free JSON object for env, injecting
// the "t" discriminator the Envelope interface doesn't carry on the wire.
func toWireMap(env Envelope) (map[string]any, error) {
	switch e := env.(type) {
	case Ready:
		m := map[string]any{"t": string(TypeReady), "sid": e.Sid}
		if e.Capabilities != nil {
			m["capabilities"] = e.Capabilities
		}
		return m, nil
	case Intent:
		m := map[string]any{"t": string(TypeIntent), "sid": e.Sid, "name": e.Name}
		if e.ID != nil {
			m["id"] = *e.ID
		}
		if e.Payload != nil {
			m["payload"] = e.Payload
		}
		return m, nil
	case Render:
		m := map[string]any{"t": string(TypeRender), "sid": e.Sid, "rev": e.Rev, "vm": vm.Map(e.VM)}
		if e.Ack != nil {
			m["ack"] = *e.Ack
		}
		return m, nil
	case Patch:
		ops := e.Ops
		if ops == nil {
			ops = []vm.Op{}
		}
		m := map[string]any{"t": string(TypePatch), "sid": e.Sid, "rev": e.Rev, "ops": ops}
		if e.Ack != nil {
			m["ack"] = *e.Ack
		}
		return m, nil
	case Error:
		m := map[string]any{"t": string(TypeError), "sid": e.Sid, "code": e.Code, "message": e.Message}
		if e.Rev != nil {
			m["rev"] = *e.Rev
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unknown envelope implementation %T", ErrInvalidEnvelope, env)
	}
}
