package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"digitex-connector/wire"
)

// loopTransport 记录发出的帧，并允许测试注入入站消息。
type loopTransport struct {
	mu      sync.Mutex
	sent    [][]byte
	data    bool
	control bool
	handler Handler
}

func (l *loopTransport) Connect(_ context.Context, h Handler) error {
	l.mu.Lock()
	l.handler = h
	l.data, l.control = true, true
	l.mu.Unlock()
	h.OnSignal(DataConnected)
	h.OnSignal(ControlConnected)
	return nil
}

func (l *loopTransport) Send(msg []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.control {
		return false
	}
	l.sent = append(l.sent, msg)
	return true
}

func (l *loopTransport) IsDataConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data
}

func (l *loopTransport) IsControlConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.control
}

func (l *loopTransport) Close() error { return nil }

func (l *loopTransport) inject(t *testing.T, env wire.Envelope) {
	t.Helper()
	raw, err := env.Marshal()
	require.NoError(t, err)
	l.handler.OnRawMessage(raw)
}

func (l *loopTransport) lastSent(t *testing.T) wire.Envelope {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.sent)
	env, err := wire.Unmarshal(l.sent[len(l.sent)-1])
	require.NoError(t, err)
	return env
}
