// Package trading 是连接器的门面：把 Connection 的事件分发到订单账本、订单簿与
// 追踪止损引擎，并对外提供下单、撤单、订阅与查询接口。
package trading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"digitex-connector/event"
	"digitex-connector/gateway"
	"digitex-connector/market"
	"digitex-connector/order"
	"digitex-connector/wire"
)

// Recorder 汇总订单簿与账本的指标接口，可为 nil。
type Recorder interface {
	market.Recorder
	order.Recorder
}

// TradeBatch 是一条回报携带的成交：Positions 为持仓变动，All 为全部原始成交。
type TradeBatch struct {
	Symbol    market.Symbol
	Positions []order.Trade
	All       []order.Trade
}

// CancelError 是被交易所拒绝的撤单请求。
type CancelError struct {
	Symbol       market.Symbol
	PrevClientID uuid.UUID
	Code         wire.ErrorCode
	Orders       []wire.OrderInfo
}

// Aggregator 是连接器门面。所有下单/撤单在控制通道未连接时立即失败。
type Aggregator struct {
	conn     *gateway.Connection
	registry *market.Registry
	books    *market.Engine
	ledger   *order.Ledger
	trailing *order.TrailingEngine
	recon    *order.Reconciler
	stats    *traderStats
	log      *zap.Logger
	now      func() time.Time

	orderChanged  event.Feed[order.Order]
	trades        event.Feed[TradeBatch]
	errorReceived event.Feed[gateway.ErrorEvent]
	cancelErrors  event.Feed[CancelError]
	infoChanged   event.Feed[TraderInfo]

	cancels []func()
}

// New 组装门面并订阅 Connection 的事件。
func New(conn *gateway.Connection, registry *market.Registry, log *zap.Logger, rec Recorder) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	if registry == nil {
		registry = market.NewRegistry(nil)
	}
	ledger := order.NewLedger(conn, log.Named("ledger"), rec)
	a := &Aggregator{
		conn:     conn,
		registry: registry,
		books:    market.NewEngine(conn, log.Named("books"), rec),
		ledger:   ledger,
		trailing: order.NewTrailingEngine(ledger, log.Named("trailing"), rec),
		recon:    order.NewReconciler(ledger, log.Named("reconciler")),
		stats:    newTraderStats(registry.All()),
		log:      log,
		now:      time.Now,
	}
	a.cancels = append(a.cancels,
		conn.Events().Subscribe(a.onEvent),
		conn.Errors().Subscribe(a.onError),
		conn.Signals().Subscribe(a.onSignal),
		a.books.Tracked().Subscribe(func(ob *market.OrderBook) {
			ob.SpotPriceUpdated().Subscribe(a.trailing.OnSpot)
		}),
		ledger.Changes().Subscribe(a.orderChanged.Publish),
	)
	return a
}

// OrderChanged 在任一订单状态更新时发布。
func (a *Aggregator) OrderChanged() *event.Feed[order.Order] { return &a.orderChanged }

// TradesReceived 在回报携带成交时发布。
func (a *Aggregator) TradesReceived() *event.Feed[TradeBatch] { return &a.trades }

// ErrorReceived 发布交易所返回的每一个错误。
func (a *Aggregator) ErrorReceived() *event.Feed[gateway.ErrorEvent] { return &a.errorReceived }

// OrderCancelError 在撤单被拒绝时发布。
func (a *Aggregator) OrderCancelError() *event.Feed[CancelError] { return &a.cancelErrors }

// TraderInfoChanged 在交易者指标更新后发布。
func (a *Aggregator) TraderInfoChanged() *event.Feed[TraderInfo] { return &a.infoChanged }

// Signals 透传通道连接状态。
func (a *Aggregator) Signals() *event.Feed[gateway.Signal] { return a.conn.Signals() }

func (a *Aggregator) Registry() *market.Registry { return a.registry }

// Books 返回订单簿引擎，用于查询已订阅的订单簿。
func (a *Aggregator) Books() *market.Engine { return a.books }

func (a *Aggregator) Reconciler() *order.Reconciler { return a.recon }

// Connect 启动底层 Transport。
func (a *Aggregator) Connect(ctx context.Context) error { return a.conn.Connect(ctx) }

// IsConnected 报告控制通道是否可用。
func (a *Aggregator) IsConnected() bool { return a.conn.IsControlConnected() }

// PlaceLimit 下限价单；控制通道不可用或发送失败时返回 false。
func (a *Aggregator) PlaceLimit(sym market.Symbol, side wire.Side, qty, price decimal.Decimal, hooks order.Hooks) (order.Order, bool) {
	if !a.IsConnected() {
		return order.Order{}, false
	}
	o, err := order.NewLimit(sym, side, qty, price)
	if err != nil {
		a.log.Warn("reject limit order", zap.String("symbol", sym.Name), zap.Error(err))
		return order.Order{}, false
	}
	return a.ledger.Submit(o, hooks)
}

// PlaceMarket 下市价单。
func (a *Aggregator) PlaceMarket(sym market.Symbol, side wire.Side, qty decimal.Decimal, hooks order.Hooks) (order.Order, bool) {
	if !a.IsConnected() {
		return order.Order{}, false
	}
	o, err := order.NewMarket(sym, side, qty)
	if err != nil {
		a.log.Warn("reject market order", zap.String("symbol", sym.Name), zap.Error(err))
		return order.Order{}, false
	}
	return a.ledger.Submit(o, hooks)
}

// PlaceTrailingStop 登记追踪止损；需要该合约已订阅且已有调整后现货价。
func (a *Aggregator) PlaceTrailingStop(sym market.Symbol, side wire.Side, qty decimal.Decimal, lagTicks int, hooks order.Hooks) (order.Order, bool) {
	if !a.IsConnected() {
		return order.Order{}, false
	}
	ob, ok := a.books.Book(sym.MarketID)
	if !ok {
		a.log.Warn("trailing stop on untracked symbol", zap.String("symbol", sym.Name))
		return order.Order{}, false
	}
	spot, ok := ob.AdjustedSpotPrice()
	if !ok {
		a.log.Warn("trailing stop without spot price", zap.String("symbol", sym.Name))
		return order.Order{}, false
	}
	o, err := order.NewTrailingStop(sym, side, qty, spot, lagTicks)
	if err != nil {
		a.log.Warn("reject trailing stop", zap.String("symbol", sym.Name), zap.Error(err))
		return order.Order{}, false
	}
	snap, err := a.trailing.Add(o, hooks)
	if err != nil {
		return order.Order{}, false
	}
	return snap, true
}

// CancelOrder 撤单。未触发的追踪止损只在本地移除。
func (a *Aggregator) CancelOrder(id uuid.UUID) bool {
	if !a.IsConnected() {
		return false
	}
	if a.trailing.Cancel(id) {
		return true
	}
	return a.ledger.Cancel(id)
}

// CancelAllOrders 撤销指定合约的全部订单。
func (a *Aggregator) CancelAllOrders(sym market.Symbol) bool {
	if !a.IsConnected() {
		return false
	}
	return a.ledger.CancelAll(sym.MarketID)
}

// UpdateTraderStatus 请求交易者状态，回报会触发全量对账。
func (a *Aggregator) UpdateTraderStatus(sym market.Symbol) bool {
	if !a.IsConnected() {
		return false
	}
	return a.conn.RequestTraderStatus(sym.MarketID, uuid.New())
}

// ChangeLeverage 修改该合约全部持仓与订单的杠杆。
func (a *Aggregator) ChangeLeverage(sym market.Symbol, leverage uint32) bool {
	if !a.IsConnected() || leverage == 0 {
		return false
	}
	return a.conn.ChangeLeverage(sym.MarketID, uuid.New(), leverage)
}

// TrackSymbol 订阅合约行情，返回其订单簿；合约不在合约表中时返回 nil。
func (a *Aggregator) TrackSymbol(sym market.Symbol) *market.OrderBook {
	known, ok := a.registry.ByMarketID(sym.MarketID)
	if !ok {
		a.log.Warn("track unknown symbol", zap.String("symbol", sym.Name), zap.Uint32("market_id", sym.MarketID))
		return nil
	}
	return a.books.Track(known)
}

func (a *Aggregator) GetOrders() []order.Order { return a.ledger.GetOrders() }

func (a *Aggregator) GetOrdersBySymbol(sym market.Symbol) []order.Order {
	return a.ledger.GetOrdersByMarket(sym.MarketID)
}

// GetTrailingStops 返回尚未触发的追踪止损。
func (a *Aggregator) GetTrailingStops(sym market.Symbol) []order.Order {
	return a.trailing.Pending(sym.MarketID)
}

func (a *Aggregator) GetTraderInfo(sym market.Symbol) (TraderInfo, bool) {
	return a.stats.get(sym.MarketID)
}

// Close 取消全部订阅并关闭连接。
func (a *Aggregator) Close() error {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.books.Close()
	a.trailing.Close()
	a.ledger.Close()
	a.orderChanged.Close()
	a.trades.Close()
	a.errorReceived.Close()
	a.cancelErrors.Close()
	a.infoChanged.Close()
	return a.conn.Close()
}

func (a *Aggregator) symbol(marketID uint32) market.Symbol {
	if sym, ok := a.registry.ByMarketID(marketID); ok {
		return sym
	}
	return market.Symbol{MarketID: marketID}
}

func (a *Aggregator) onEvent(ev gateway.Event) {
	sym := a.symbol(ev.MarketID)
	a.updateInfo(sym, ev)

	switch ev.Kind {
	case wire.KindOrderStatus:
		a.ledger.ApplyStatus(sym, ev.ClientID, ev.Content.(*wire.OrderStatus))
	case wire.KindOrderFilled:
		m := ev.Content.(*wire.OrderFilled)
		a.publishTrades(sym, m.Trades, m.RawTrades)
		a.ledger.ApplyFilled(sym, m)
	case wire.KindTraderStatus:
		m := ev.Content.(*wire.TraderStatus)
		if ev.TraderID != 0 {
			a.conn.SetTraderID(ev.TraderID)
		}
		a.recon.Resync(sym, m.Orders)
		a.publishTrades(sym, nil, m.Trades)
	case wire.KindFunding:
		a.publishTrades(sym, nil, ev.Content.(*wire.Funding).Trades)
	case wire.KindOrderCanceled:
		m := ev.Content.(*wire.OrderCanceled)
		a.ledger.ApplyCanceled(m)
		if m.Status == wire.StatusRejected {
			a.cancelErrors.Publish(CancelError{
				Symbol:       sym,
				PrevClientID: m.PrevClientID,
				Code:         ev.ErrorCode,
				Orders:       m.Orders,
			})
		}
	case wire.KindLeverage:
		a.ledger.UpdateOrders(sym, ev.Content.(*wire.Leverage).Orders)
	case wire.KindOrderBook,
		wire.KindOrderBookUpdated,
		wire.KindExchangeRate,
		wire.KindMarketState,
		wire.KindMarketStateUpdate:
		a.books.OnEvent(ev)
	case wire.KindTraderBalance:
		// 只更新指标
	}
}

func (a *Aggregator) updateInfo(sym market.Symbol, ev gateway.Event) {
	info, ok := a.stats.update(sym, ev.TraderID, ev.Content, a.now())
	if ok {
		a.infoChanged.Publish(info)
	}
}

func (a *Aggregator) publishTrades(sym market.Symbol, positions, all []wire.Trade) {
	if len(positions) == 0 && len(all) == 0 {
		return
	}
	a.trades.Publish(TradeBatch{
		Symbol:    sym,
		Positions: order.TradesFromWire(sym, positions),
		All:       order.TradesFromWire(sym, all),
	})
}

func (a *Aggregator) onError(e gateway.ErrorEvent) {
	a.errorReceived.Publish(e)
	a.ledger.HandleError(e.ClientID, e.Code)
}

// onSignal 在控制通道连上或重连后请求交易者状态，触发全量对账。
func (a *Aggregator) onSignal(s gateway.Signal) {
	switch s {
	case gateway.ControlConnected, gateway.ControlReconnected:
		a.requestAllTraderStatus()
	}
	a.books.OnSignal(s)
}

func (a *Aggregator) requestAllTraderStatus() {
	symbols := a.registry.All()
	if len(symbols) == 0 {
		a.conn.RequestTraderStatus(1, uuid.New())
		return
	}
	for _, sym := range symbols {
		if !a.conn.RequestTraderStatus(sym.MarketID, uuid.New()) {
			a.log.Warn("trader status request not sent", zap.String("symbol", sym.Name))
		}
	}
}
