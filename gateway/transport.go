package gateway

import "context"

// Signal 是通道级别的连接状态通知。
type Signal uint8

const (
	DataConnected Signal = iota + 1
	DataReconnected
	DataDisconnected
	ControlConnected
	ControlReconnected
	ControlDisconnected
)

func (s Signal) String() string {
	switch s {
	case DataConnected:
		return "data_connected"
	case DataReconnected:
		return "data_reconnected"
	case DataDisconnected:
		return "data_disconnected"
	case ControlConnected:
		return "control_connected"
	case ControlReconnected:
		return "control_reconnected"
	case ControlDisconnected:
		return "control_disconnected"
	default:
		return "unknown"
	}
}

// Handler 接收 Transport 投递的原始消息与连接信号。
// 同一通道内的消息按到达顺序串行投递。
type Handler interface {
	OnRawMessage(msg []byte)
	OnSignal(s Signal)
}

// Transport 抽象两条逻辑通道（行情 / 控制）。
type Transport interface {
	// Connect 启动后台连接，立即返回。
	Connect(ctx context.Context, h Handler) error
	// Send 通过控制通道发送；通道未运行时返回 false。
	Send(msg []byte) bool
	IsDataConnected() bool
	IsControlConnected() bool
	Close() error
}
