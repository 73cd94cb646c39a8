package protocol

import "github.com/isaiahdw/projection/pkg/vm"

// Type discriminates an Envelope's concrete payload.
type Type string

const (
	TypeReady  Type = "ready"
	TypeIntent Type = "intent"
	TypeRender Type = "render"
	TypePatch  Type = "patch"
	TypeError  Type = "error"
)

// Envelope is any of the five wire messages. Concrete types are Ready,
// Intent, Render, Patch, and Error.
type Envelope interface {
	EnvelopeType() Type
}

// Ready is sent by the renderer on (re)connect, carrying the session id it
// wants to use. Per the stable-sid invariant, the core only adopts this sid
// the first time; later ones are ignored.
type Ready struct {
	Sid          string         `json:"sid"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

func (Ready) EnvelopeType() Type { return TypeReady }

// Intent is sent by the renderer to report a user action or a routing
// request. Id, when present, is a monotonically increasing client id used
// for ack correlation (§4.8). Payload is nil when absent; a payload that is
// not a JSON object makes decoding fail with ErrDecode. Session.HandleIntent
// treats a nil Payload as an empty map.
type Intent struct {
	Sid     string         `json:"sid"`
	Name    string         `json:"name"`
	ID      *int64         `json:"id,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (Intent) EnvelopeType() Type { return TypeIntent }

// Render is a full view-model snapshot. The session sends one in reply to
// every `ready`; all other VM changes, screen identity changes included,
// go out as Patch envelopes.
type Render struct {
	Sid string `json:"sid"`
	Rev uint64 `json:"rev"`
	VM  vm.Map `json:"vm"`
	Ack *int64 `json:"ack,omitempty"`
}

func (Render) EnvelopeType() Type { return TypeRender }

// Patch is a coalesced batch of patch ops against the previously emitted
// snapshot (full render or prior patch).
type Patch struct {
	Sid string  `json:"sid"`
	Rev uint64  `json:"rev"`
	Ops []vm.Op `json:"ops"`
	Ack *int64  `json:"ack,omitempty"`
}

func (Patch) EnvelopeType() Type { return TypePatch }

// Error reports a protocol-level fault. Rev, when set, names the revision
// the error pertains to; the bridges' decode-failure errors leave it unset.
type Error struct {
	Sid     string  `json:"sid"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Rev     *uint64 `json:"rev,omitempty"`
}

func (Error) EnvelopeType() Type { return TypeError }
