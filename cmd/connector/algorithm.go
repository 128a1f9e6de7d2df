package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"digitex-connector/market"
	"digitex-connector/order"
	"digitex-connector/trading"
	"digitex-connector/wire"
)

const imbalanceLevels = 5

// intervalTrader 每个周期挂一张限价单：未持多仓时在买一买入，持多仓时在卖一卖出。
// 上一周期的挂单仍在时先撤单，本周期不再下单。
type intervalTrader struct {
	agg  *trading.Aggregator
	sym  market.Symbol
	book *market.OrderBook
	qty  decimal.Decimal
	log  *zap.Logger

	mu     sync.Mutex
	active uuid.UUID
}

func newIntervalTrader(agg *trading.Aggregator, sym market.Symbol, qty decimal.Decimal, log *zap.Logger) *intervalTrader {
	return &intervalTrader{
		agg:  agg,
		sym:  sym,
		book: agg.TrackSymbol(sym),
		qty:  qty,
		log:  log,
	}
}

func (t *intervalTrader) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.step()
		}
	}
}

// step 执行一个周期，返回是否发出了新订单。
func (t *intervalTrader) step() bool {
	if !t.agg.IsConnected() || t.book == nil {
		return false
	}
	t.logState()

	t.mu.Lock()
	active := t.active
	t.mu.Unlock()
	if active != uuid.Nil && t.stillOpen(active) {
		if !t.agg.CancelOrder(active) {
			t.log.Warn("cancel previous order not sent", zap.Stringer("id", active))
		}
		return false
	}

	info, _ := t.agg.GetTraderInfo(t.sym)
	long := info.PositionType == wire.PositionLong && info.PositionContracts.IsPositive()

	side := wire.SideBuy
	price, ok := t.book.BestBid()
	if long {
		side = wire.SideSell
		price, ok = t.book.BestAsk()
	}
	if !ok {
		price, ok = t.book.AdjustedSpotPrice()
	}
	if !ok {
		t.log.Info("no price yet", zap.String("symbol", t.sym.Name))
		return false
	}

	o, ok := t.agg.PlaceLimit(t.sym, side, t.qty, price, order.Hooks{
		OnStatus: func(o order.Order) {
			t.log.Info("order status",
				zap.Stringer("id", o.OrigClientID),
				zap.Stringer("status", o.Status),
				zap.Stringer("filled", o.FilledQuantity))
		},
		OnError: func(o order.Order, code wire.ErrorCode) {
			t.log.Warn("order error", zap.Stringer("id", o.OrigClientID), zap.Stringer("code", code))
		},
	})
	if !ok {
		t.log.Warn("place order failed", zap.String("symbol", t.sym.Name))
		return false
	}
	t.mu.Lock()
	t.active = o.OrigClientID
	t.mu.Unlock()
	t.log.Info("order placed",
		zap.Stringer("side", side),
		zap.Stringer("price", price),
		zap.Stringer("qty", t.qty))
	return true
}

func (t *intervalTrader) stillOpen(id uuid.UUID) bool {
	for _, o := range t.agg.GetOrdersBySymbol(t.sym) {
		if o.OrigClientID == id {
			return true
		}
	}
	return false
}

func (t *intervalTrader) logState() {
	info, ok := t.agg.GetTraderInfo(t.sym)
	if !ok {
		return
	}
	t.log.Info("trader info",
		zap.String("symbol", t.sym.Name),
		zap.Stringer("balance", info.TraderBalance),
		zap.Stringer("available", info.AvailableBalance()),
		zap.Stringer("upnl", info.Upnl),
		zap.Stringer("position", info.PositionType),
		zap.Stringer("contracts", info.PositionContracts),
		zap.Stringer("imbalance", t.book.Imbalance(imbalanceLevels)))
}
