package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/isaiahdw/projection/pkg/protocol"
)

// WSBridge implements Bridge over a WebSocket connection, reconnecting
// with bounded exponential backoff whenever the connection drops (§6.2).
// Reconnect attempts are additionally paced through a rate.Limiter so a
// flapping server can't be hammered faster than the backoff schedule
// intends.
type WSBridge struct {
	url       string
	dialer    *websocket.Dialer
	onInbound InboundHandler
	logger    *slog.Logger
	codec     *protocol.Codec
	backoff   Backoff
	limiter   *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	connMu sync.Mutex
	conn   *websocket.Conn
}

// DialWSBridge starts a WebSocket connection to url and begins delivering
// decoded inbound envelopes to onInbound. Connection is established and
// maintained on a background goroutine; Send before the first successful
// connect is dropped with a log warning, consistent with the bridge's
// fire-and-forget contract.
func DialWSBridge(url string, onInbound InboundHandler, logger *slog.Logger) *WSBridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &WSBridge{
		url:       url,
		dialer:    websocket.DefaultDialer,
		onInbound: onInbound,
		logger:    logger,
		codec:     protocol.NewCodec(logger),
		backoff:   DefaultBackoff,
		limiter:   rate.NewLimiter(rate.Every(DefaultBackoff.Base), 1),
		ctx:       ctx,
		cancel:    cancel,
	}
	go b.connectLoop()
	return b
}

func (b *WSBridge) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}

func (b *WSBridge) connectLoop() {
	attempt := 0
	for {
		if b.ctx.Err() != nil {
			return
		}
		if attempt > 0 {
			if err := b.limiter.Wait(b.ctx); err != nil {
				return
			}
			select {
			case <-time.After(b.backoff.Delay(attempt - 1)):
			case <-b.ctx.Done():
				return
			}
		}
		conn, _, err := b.dialer.DialContext(b.ctx, b.url, nil)
		if err != nil {
			b.log().Warn("bridge reconnect failed", "attempt", attempt, "error", err)
			attempt++
			continue
		}
		b.setConn(conn)
		attempt = 0
		b.readUntilClosed(conn)
		b.setConn(nil)
		attempt++
	}
}

func (b *WSBridge) setConn(conn *websocket.Conn) {
	b.connMu.Lock()
	b.conn = conn
	b.connMu.Unlock()
}

func (b *WSBridge) readUntilClosed(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if b.ctx.Err() == nil {
				b.log().Warn("bridge connection lost, will reconnect", "error", err)
			}
			return
		}
		env, err := b.codec.DecodeInbound(payload)
		if err != nil {
			b.log().Warn("bridge failed to decode inbound envelope", "error", err)
			b.resyncAfterDecodeFailure(err)
			continue
		}
		b.onInbound(env)
	}
}

// resyncAfterDecodeFailure implements §7's "transport decode failures"
// handling: a synthetic protocol.Error is sent back to the renderer, then a
// synthetic ready is fed into onInbound to force a fresh full render. The
// session itself never observes the malformed frame.
func (b *WSBridge) resyncAfterDecodeFailure(decodeErr error) {
	_ = b.Send(protocol.Error{
		Code:    string(protocol.ClassifyDecodeError(decodeErr)),
		Message: decodeErr.Error(),
	})
	b.onInbound(protocol.Ready{})
}

// Send encodes env and writes it as one WebSocket text message. If no
// connection is currently established, the envelope is dropped and logged
// — the next successful render after reconnect carries the full state
// (§7, transport encode failures).
func (b *WSBridge) Send(env protocol.Envelope) error {
	payload, err := b.codec.EncodeOutbound(env)
	if err != nil {
		b.log().Warn("bridge failed to encode outbound envelope, dropping", "error", err)
		return nil
	}
	b.connMu.Lock()
	conn := b.conn
	b.connMu.Unlock()
	if conn == nil {
		b.log().Warn("bridge has no active connection, dropping outbound envelope")
		return nil
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		b.log().Warn("bridge write failed, dropping outbound envelope", "error", err)
	}
	return nil
}

// Close stops the reconnect loop and closes any active connection.
func (b *WSBridge) Close() error {
	b.cancel()
	b.connMu.Lock()
	defer b.connMu.Unlock()
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
