package gateway

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"digitex-connector/event"
	"digitex-connector/wire"
)

// Event 是一条解码后的入站消息。Content 的具体类型由 Kind 决定。
type Event struct {
	Kind      wire.Kind
	MarketID  uint32
	TraderID  uint32
	ClientID  uuid.UUID
	Timestamp time.Time
	ErrorCode wire.ErrorCode
	Content   wire.Content
}

// ErrorEvent 是交易所通过信封错误码返回的错误，ClientID 为请求的关联 ID。
type ErrorEvent struct {
	MarketID uint32
	ClientID uuid.UUID
	Code     wire.ErrorCode
}

// Connection 负责解码入站消息并分发事件，以及编码出站指令。
type Connection struct {
	transport Transport
	traderID  atomic.Uint32
	log       *zap.Logger
	metrics   Metrics

	events  event.Feed[Event]
	errors  event.Feed[ErrorEvent]
	signals event.Feed[Signal]
}

func NewConnection(t Transport, log *zap.Logger, m Metrics) *Connection {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = NopMetrics{}
	}
	return &Connection{transport: t, log: log, metrics: m}
}

// SetTraderID 设置出站信封携带的 trader id。
func (c *Connection) SetTraderID(id uint32) { c.traderID.Store(id) }

func (c *Connection) Events() *event.Feed[Event]        { return &c.events }
func (c *Connection) Errors() *event.Feed[ErrorEvent]   { return &c.errors }
func (c *Connection) Signals() *event.Feed[Signal]      { return &c.signals }
func (c *Connection) IsDataConnected() bool             { return c.transport.IsDataConnected() }
func (c *Connection) IsControlConnected() bool          { return c.transport.IsControlConnected() }
func (c *Connection) Connect(ctx context.Context) error { return c.transport.Connect(ctx, c) }

// Close 关闭底层 Transport 并移除所有订阅者。
func (c *Connection) Close() error {
	err := c.transport.Close()
	c.events.Close()
	c.errors.Close()
	c.signals.Close()
	return err
}

// OnSignal 透传通道状态。
func (c *Connection) OnSignal(s Signal) {
	c.log.Info("channel signal", zap.Stringer("signal", s))
	c.signals.Publish(s)
}

// OnRawMessage 解码一条入站消息；解码失败只记录日志并丢弃。
func (c *Connection) OnRawMessage(msg []byte) {
	start := time.Now()
	defer func() { c.metrics.ObserveDispatch(time.Since(start).Seconds()) }()

	env, err := wire.Unmarshal(msg)
	if err != nil {
		c.metrics.RecordDecodeError()
		c.log.Warn("drop undecodable message", zap.Int("bytes", len(msg)), zap.Error(err))
		return
	}
	if env.ErrorCode.IsError() {
		c.metrics.RecordExchangeError(env.ErrorCode.String())
		c.log.Warn("exchange error",
			zap.Stringer("code", env.ErrorCode),
			zap.Stringer("client_id", env.ClientID),
			zap.Uint32("market_id", env.MarketID),
			zap.Stringer("kind", env.Kind))
		c.errors.Publish(ErrorEvent{MarketID: env.MarketID, ClientID: env.ClientID, Code: env.ErrorCode})
	}

	switch env.Kind {
	case wire.KindOrderStatus,
		wire.KindOrderFilled,
		wire.KindTraderStatus,
		wire.KindTraderBalance,
		wire.KindFunding,
		wire.KindOrderCanceled,
		wire.KindOrderBook,
		wire.KindOrderBookUpdated,
		wire.KindExchangeRate,
		wire.KindMarketState,
		wire.KindMarketStateUpdate,
		wire.KindLeverage:
		c.metrics.RecordMessage(env.Kind.String())
		c.events.Publish(Event{
			Kind:      env.Kind,
			MarketID:  env.MarketID,
			TraderID:  env.TraderID,
			ClientID:  env.ClientID,
			Timestamp: wire.Time(env.Timestamp),
			ErrorCode: env.ErrorCode,
			Content:   env.Content,
		})
	case wire.KindNone:
		// 未知或空内容：向前兼容，忽略
	default:
		c.log.Debug("ignore outbound kind on inbound channel", zap.Stringer("kind", env.Kind))
	}
}

// Send 编码并通过 Transport 发送，通道不可用时返回 false。不在此层重试。
func (c *Connection) Send(content wire.Content, marketID uint32, requestID uuid.UUID) bool {
	env := wire.BuildEnvelope(content, marketID, requestID, c.traderID.Load())
	raw, err := env.Marshal()
	if err != nil {
		c.metrics.RecordSend(env.Kind.String(), false)
		c.log.Error("encode outbound message", zap.Stringer("kind", env.Kind), zap.Error(err))
		return false
	}
	ok := c.transport.Send(raw)
	c.metrics.RecordSend(env.Kind.String(), ok)
	if !ok {
		c.log.Warn("send failed",
			zap.Stringer("kind", env.Kind),
			zap.Uint32("market_id", marketID),
			zap.Stringer("request_id", requestID))
		return false
	}
	c.log.Debug("sent",
		zap.Stringer("kind", env.Kind),
		zap.Uint32("market_id", marketID),
		zap.Stringer("request_id", requestID))
	return true
}
