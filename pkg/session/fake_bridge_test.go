package session

import "github.com/isaiahdw/projection/pkg/protocol"

// fakeBridge records every outbound envelope it's sent, for assertions.
type fakeBridge struct {
	sent   []protocol.Envelope
	closed bool
}

func (f *fakeBridge) Send(env protocol.Envelope) error {
	f.sent = append(f.sent, env)
	return nil
}

func (f *fakeBridge) Close() error {
	f.closed = true
	return nil
}

func (f *fakeBridge) last() protocol.Envelope {
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}
