package trading

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"digitex-connector/market"
	"digitex-connector/wire"
)

// TraderInfo 是交易者在单个合约上的账户与持仓指标。余额按合约分别保存。
type TraderInfo struct {
	Symbol   market.Symbol
	TraderID uint32

	TraderBalance     decimal.Decimal
	Pnl               decimal.Decimal
	Upnl              decimal.Decimal
	OrderMargin       decimal.Decimal
	PositionMargin    decimal.Decimal
	BuyOrderMargin    decimal.Decimal
	SellOrderMargin   decimal.Decimal
	AccumQuantity     decimal.Decimal
	BuyOrderQuantity  decimal.Decimal
	SellOrderQuantity decimal.Decimal

	PositionType              wire.PositionType
	PositionContracts         decimal.Decimal
	PositionVolume            decimal.Decimal
	PositionLiquidationVolume decimal.Decimal
	LastTradePrice            decimal.Decimal
	LastTradeQuantity         decimal.Decimal

	Leverage  uint32
	UpdatedAt time.Time
}

// AvailableBalance = 余额 - 挂单保证金 - 持仓保证金
func (t TraderInfo) AvailableBalance() decimal.Decimal {
	return t.TraderBalance.Sub(t.OrderMargin).Sub(t.PositionMargin)
}

func (t *TraderInfo) applyAccount(a *wire.Account) {
	t.TraderBalance = a.TraderBalance
	t.Pnl = a.Pnl
	t.Upnl = a.Upnl
	t.OrderMargin = a.OrderMargin
	t.PositionMargin = a.PositionMargin
	t.BuyOrderMargin = a.BuyOrderMargin
	t.SellOrderMargin = a.SellOrderMargin
	t.AccumQuantity = a.AccumQuantity
	t.BuyOrderQuantity = a.BuyOrderQuantity
	t.SellOrderQuantity = a.SellOrderQuantity
}

func (t *TraderInfo) applyPosition(p *wire.Position) {
	t.PositionType = p.Type
	t.PositionContracts = p.Contracts
	t.PositionVolume = p.Volume
	t.PositionLiquidationVolume = p.LiquidationVolume
	t.LastTradePrice = p.LastTradePrice
	t.LastTradeQuantity = p.LastTradeQuantity
}

// apply 用任意携带公共字段的消息更新指标，返回是否有字段被更新。
func (t *TraderInfo) apply(c wire.Content) bool {
	switch c.Kind() {
	case wire.KindOrderStatus, wire.KindOrderCanceled:
		a, _ := wire.AccountOf(c)
		t.applyAccount(a)
	case wire.KindOrderFilled:
		m := c.(*wire.OrderFilled)
		t.applyAccount(&m.Account)
		t.applyPosition(&m.Position)
	case wire.KindTraderStatus:
		m := c.(*wire.TraderStatus)
		t.applyAccount(&m.Account)
		t.applyPosition(&m.Position)
		t.Leverage = m.Leverage
	case wire.KindFunding:
		m := c.(*wire.Funding)
		t.applyAccount(&m.Account)
		t.applyPosition(&m.Position)
	case wire.KindLeverage:
		m := c.(*wire.Leverage)
		t.applyAccount(&m.Account)
		t.applyPosition(&m.Position)
		t.Leverage = m.Leverage
	case wire.KindTraderBalance:
		m := c.(*wire.TraderBalance)
		t.TraderBalance = m.TraderBalance
		t.PositionMargin = m.PositionMargin
		t.OrderMargin = m.OrderMargin
	default:
		return false
	}
	return true
}

// traderStats 按 market id 保存 TraderInfo。
type traderStats struct {
	mu    sync.RWMutex
	infos map[uint32]*TraderInfo
}

func newTraderStats(symbols []market.Symbol) *traderStats {
	s := &traderStats{infos: make(map[uint32]*TraderInfo, len(symbols))}
	for _, sym := range symbols {
		s.infos[sym.MarketID] = &TraderInfo{Symbol: sym}
	}
	return s
}

// update 应用消息并返回更新后的快照；未知合约或无公共字段的消息返回 false。
func (s *traderStats) update(sym market.Symbol, traderID uint32, c wire.Content, now time.Time) (TraderInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.infos[sym.MarketID]
	if !ok {
		return TraderInfo{}, false
	}
	if c == nil || !info.apply(c) {
		return TraderInfo{}, false
	}
	if traderID != 0 {
		info.TraderID = traderID
	}
	info.UpdatedAt = now
	return *info, true
}

func (s *traderStats) get(marketID uint32) (TraderInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[marketID]
	if !ok {
		return TraderInfo{}, false
	}
	return *info, true
}
