package bridge

import (
	"io"
	"log/slog"
	"sync"

	"github.com/isaiahdw/projection/pkg/protocol"
)

// StreamBridge implements Bridge over a raw, length-framed byte stream —
// the shape described in §6.1/§6.2 for a framed child process connected
// over a pipe. Each message is a 32-bit big-endian length followed by that
// many bytes of JSON (pkg/protocol's frame format).
type StreamBridge struct {
	rw     io.ReadWriteCloser
	codec  *protocol.Codec
	logger *slog.Logger

	writeMu sync.Mutex
	closed  bool
	closeMu sync.Mutex
}

// NewStreamBridge wraps rw and begins delivering decoded inbound envelopes
// to onInbound on a background goroutine. A nil logger falls back to
// slog.Default().
func NewStreamBridge(rw io.ReadWriteCloser, onInbound InboundHandler, logger *slog.Logger) *StreamBridge {
	b := &StreamBridge{rw: rw, codec: protocol.NewCodec(logger), logger: logger}
	go b.readLoop(onInbound)
	return b
}

func (b *StreamBridge) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}

func (b *StreamBridge) readLoop(onInbound InboundHandler) {
	for {
		payload, err := protocol.ReadFrame(b.rw, protocol.MaxInboundBytes)
		if err != nil {
			if !b.isClosed() {
				b.log().Warn("stream bridge read failed, stopping read loop", "error", err)
			}
			return
		}
		env, err := b.codec.DecodeInbound(payload)
		if err != nil {
			b.log().Warn("stream bridge failed to decode inbound envelope", "error", err)
			b.resyncAfterDecodeFailure(err, onInbound)
			continue
		}
		onInbound(env)
	}
}

// resyncAfterDecodeFailure implements §7's "transport decode failures"
// handling: a synthetic protocol.Error is sent back to the renderer, then a
// synthetic ready is fed into onInbound to force a fresh full render. The
// session itself never observes the malformed frame.
func (b *StreamBridge) resyncAfterDecodeFailure(decodeErr error, onInbound InboundHandler) {
	_ = b.Send(protocol.Error{
		Code:    string(protocol.ClassifyDecodeError(decodeErr)),
		Message: decodeErr.Error(),
	})
	onInbound(protocol.Ready{})
}

func (b *StreamBridge) isClosed() bool {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()
	return b.closed
}

// Send encodes env and writes it as one length-framed message.
func (b *StreamBridge) Send(env protocol.Envelope) error {
	payload, err := b.codec.EncodeOutbound(env)
	if err != nil {
		b.log().Warn("stream bridge failed to encode outbound envelope, dropping", "error", err)
		return nil
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := protocol.WriteFrame(b.rw, payload); err != nil {
		b.log().Warn("stream bridge failed to write frame, dropping", "error", err)
		return nil
	}
	return nil
}

// Close closes the underlying stream, which unblocks and ends the read
// loop.
func (b *StreamBridge) Close() error {
	b.closeMu.Lock()
	b.closed = true
	b.closeMu.Unlock()
	return b.rw.Close()
}
