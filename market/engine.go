package market

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"digitex-connector/event"
	"digitex-connector/gateway"
	"digitex-connector/wire"
)

// Requester 发送行情快照请求，由 gateway.Connection 实现。
type Requester interface {
	RequestOrderBook(marketID uint32, requestID uuid.UUID) bool
	RequestMarketState(marketID uint32, requestID uuid.UUID) bool
}

// Recorder 记录订阅数量，可为 nil。
type Recorder interface {
	SetTrackedBooks(n int)
}

// Engine 维护已订阅合约的订单簿，并按 market id 把行情事件路由到对应订单簿。
type Engine struct {
	req Requester
	log *zap.Logger
	rec Recorder
	now func() time.Time

	mu    sync.RWMutex
	books map[uint32]*OrderBook

	tracked event.Feed[*OrderBook]
}

func NewEngine(req Requester, log *zap.Logger, rec Recorder) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		req:   req,
		log:   log,
		rec:   rec,
		now:   time.Now,
		books: make(map[uint32]*OrderBook),
	}
}

// Tracked 在新合约首次订阅时发布。
func (e *Engine) Tracked() *event.Feed[*OrderBook] { return &e.tracked }

// Track 订阅合约；首次订阅时创建空订单簿并请求全量快照与行情状态。
// 重复订阅返回同一订单簿。
func (e *Engine) Track(sym Symbol) *OrderBook {
	e.mu.Lock()
	if ob, ok := e.books[sym.MarketID]; ok {
		e.mu.Unlock()
		return ob
	}
	ob := NewOrderBook(sym)
	e.books[sym.MarketID] = ob
	n := len(e.books)
	e.mu.Unlock()

	if e.rec != nil {
		e.rec.SetTrackedBooks(n)
	}
	e.log.Info("track symbol", zap.String("symbol", sym.Name), zap.Uint32("market_id", sym.MarketID))
	e.tracked.Publish(ob)
	e.request(sym)
	return ob
}

func (e *Engine) request(sym Symbol) {
	if e.req == nil {
		return
	}
	if !e.req.RequestOrderBook(sym.MarketID, uuid.New()) {
		e.log.Warn("order book request not sent", zap.String("symbol", sym.Name))
		return
	}
	if !e.req.RequestMarketState(sym.MarketID, uuid.New()) {
		e.log.Warn("market state request not sent", zap.String("symbol", sym.Name))
	}
}

// Book 按 market id 查找已订阅的订单簿。
func (e *Engine) Book(marketID uint32) (*OrderBook, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ob, ok := e.books[marketID]
	return ob, ok
}

// BookBySymbol 按合约名查找已订阅的订单簿。
func (e *Engine) BookBySymbol(name string) (*OrderBook, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, ob := range e.books {
		if ob.symbol.Name == name {
			return ob, true
		}
	}
	return nil, false
}

// Books 返回全部已订阅订单簿。
func (e *Engine) Books() []*OrderBook {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*OrderBook, 0, len(e.books))
	for _, ob := range e.books {
		out = append(out, ob)
	}
	return out
}

// OnEvent 处理行情类事件，非本引擎关心或未订阅合约的事件被忽略。
func (e *Engine) OnEvent(ev gateway.Event) {
	now := e.now()
	switch m := ev.Content.(type) {
	case *wire.OrderBook:
		if ob, ok := e.Book(ev.MarketID); ok {
			ob.ApplySnapshot(m, now)
		}
	case *wire.OrderBookUpdated:
		if ob, ok := e.Book(ev.MarketID); ok {
			if !ob.ApplyDelta(m, now) {
				e.log.Debug("delta before snapshot dropped", zap.String("symbol", ob.symbol.Name), zap.Uint64("serial", m.UpdateSerial))
			}
		}
	case *wire.MarketState:
		if ob, ok := e.Book(ev.MarketID); ok {
			ob.ApplyMarketState(m, now)
		}
	case *wire.MarketStateUpdate:
		if ob, ok := e.Book(ev.MarketID); ok {
			ob.ApplyMarketStateUpdate(m, now)
		}
	case *wire.ExchangeRate:
		// 汇率按币对广播，所有同币对的合约都需更新
		for _, ob := range e.Books() {
			if ob.symbol.CurrencyPairID == m.CurrencyPairID {
				ob.ApplyExchangeRate(m, now)
			}
		}
	}
}

// OnSignal 在通道连上或重连后重新请求全部快照。
func (e *Engine) OnSignal(s gateway.Signal) {
	switch s {
	case gateway.DataConnected, gateway.DataReconnected,
		gateway.ControlConnected, gateway.ControlReconnected:
		for _, ob := range e.Books() {
			e.request(ob.symbol)
		}
	}
}

// Staleness 返回指定合约距上次更新的时长；未订阅时返回一年。
func (e *Engine) Staleness(marketID uint32) time.Duration {
	ob, ok := e.Book(marketID)
	if !ok {
		return time.Hour * 24 * 365
	}
	return ob.Staleness(e.now())
}

// Close 移除所有订阅者。
func (e *Engine) Close() {
	for _, ob := range e.Books() {
		ob.Close()
	}
	e.tracked.Close()
}
