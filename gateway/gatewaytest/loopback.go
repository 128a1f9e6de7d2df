// Package gatewaytest provides an in-memory Transport for tests of packages
// built on top of gateway.Connection.
package gatewaytest

import (
	"context"
	"sync"

	"digitex-connector/gateway"
	"digitex-connector/wire"
)

// Loopback 记录发出的帧，并允许测试注入入站消息与通道信号。
type Loopback struct {
	mu      sync.Mutex
	sent    [][]byte
	data    bool
	control bool
	handler gateway.Handler
}

func New() *Loopback { return &Loopback{} }

func (l *Loopback) Connect(_ context.Context, h gateway.Handler) error {
	l.mu.Lock()
	l.handler = h
	l.mu.Unlock()
	l.Signal(gateway.DataConnected)
	l.Signal(gateway.ControlConnected)
	return nil
}

func (l *Loopback) Send(msg []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.control {
		return false
	}
	l.sent = append(l.sent, append([]byte(nil), msg...))
	return true
}

func (l *Loopback) IsDataConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data
}

func (l *Loopback) IsControlConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.control
}

func (l *Loopback) Close() error { return nil }

// Signal 更新通道状态并投递信号。
func (l *Loopback) Signal(s gateway.Signal) {
	l.mu.Lock()
	switch s {
	case gateway.DataConnected, gateway.DataReconnected:
		l.data = true
	case gateway.DataDisconnected:
		l.data = false
	case gateway.ControlConnected, gateway.ControlReconnected:
		l.control = true
	case gateway.ControlDisconnected:
		l.control = false
	}
	h := l.handler
	l.mu.Unlock()
	if h != nil {
		h.OnSignal(s)
	}
}

// Inject 编码并投递一条入站消息。
func (l *Loopback) Inject(env wire.Envelope) error {
	raw, err := env.Marshal()
	if err != nil {
		return err
	}
	l.mu.Lock()
	h := l.handler
	l.mu.Unlock()
	if h != nil {
		h.OnRawMessage(raw)
	}
	return nil
}

// Sent 解码全部已发送的帧。
func (l *Loopback) Sent() ([]wire.Envelope, error) {
	l.mu.Lock()
	frames := append([][]byte(nil), l.sent...)
	l.mu.Unlock()
	out := make([]wire.Envelope, 0, len(frames))
	for _, f := range frames {
		env, err := wire.Unmarshal(f)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

// SentKinds 返回已发送消息的类型序列。
func (l *Loopback) SentKinds() []wire.Kind {
	envs, _ := l.Sent()
	out := make([]wire.Kind, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Kind)
	}
	return out
}

// Reset 清空发送记录。
func (l *Loopback) Reset() {
	l.mu.Lock()
	l.sent = nil
	l.mu.Unlock()
}
