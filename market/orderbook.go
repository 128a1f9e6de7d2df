package market

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"digitex-connector/event"
	"digitex-connector/wire"
)

// BookState 描述订单簿是否已收到全量快照。
type BookState uint8

const (
	Uninitialized BookState = iota
	Snapshotted
)

func (s BookState) String() string {
	if s == Snapshotted {
		return "snapshotted"
	}
	return "uninitialized"
}

// SpotUpdate 在调整后的现货价变化时发布。
type SpotUpdate struct {
	Symbol   Symbol
	Spot     decimal.Decimal
	Adjusted decimal.Decimal
}

// Funding 保存资金费率相关字段。
type Funding struct {
	Rate              decimal.Decimal
	NextRate          decimal.Decimal
	Time              time.Time
	Interval          time.Duration
	PayoutPerContract decimal.Decimal
}

// Delta 是一次增量中原样的买卖档更新，数量为 0 表示删除。
type Delta struct {
	Symbol Symbol
	Asks   []Level
	Bids   []Level
	Serial uint64
}

// OrderBook 维护单个合约的价格->数量映射以及现货/资金费率信息。
type OrderBook struct {
	symbol Symbol

	mu             sync.RWMutex
	state          BookState
	asks           ladder
	bids           ladder
	spot           decimal.Decimal
	adjusted       decimal.Decimal
	hasSpot        bool
	lastTradePrice decimal.Decimal
	lastTradeQty   decimal.Decimal
	lastTrades     []Level
	lastFull       time.Time
	updateSerial   uint64
	funding        Funding
	daily          wire.DailyStats
	candles        []wire.Candle
	updatedAt      time.Time

	updated     event.Feed[*OrderBook]
	spotUpdated event.Feed[SpotUpdate]
	candlesFeed event.Feed[[]wire.Candle]
	deltaFeed   event.Feed[Delta]
}

func NewOrderBook(sym Symbol) *OrderBook {
	return &OrderBook{
		symbol: sym,
		asks:   make(ladder),
		bids:   make(ladder),
	}
}

func (ob *OrderBook) Symbol() Symbol { return ob.symbol }

// Updated 在快照或增量应用后发布。
func (ob *OrderBook) Updated() *event.Feed[*OrderBook] { return &ob.updated }

// SpotPriceUpdated 在调整后的现货价变化时发布。
func (ob *OrderBook) SpotPriceUpdated() *event.Feed[SpotUpdate] { return &ob.spotUpdated }

// DeltaApplied 在增量应用到已快照的订单簿后发布原始更新列表。
func (ob *OrderBook) DeltaApplied() *event.Feed[Delta] { return &ob.deltaFeed }

// CandlesReceived 在行情状态消息携带 K 线时发布。
func (ob *OrderBook) CandlesReceived() *event.Feed[[]wire.Candle] { return &ob.candlesFeed }

// ApplySnapshot 用全量快照原子地替换买卖两侧。
func (ob *OrderBook) ApplySnapshot(m *wire.OrderBook, now time.Time) {
	asks := make(ladder, len(m.Asks))
	for _, lv := range m.Asks {
		asks.apply(lv.Price, lv.Quantity)
	}
	bids := make(ladder, len(m.Bids))
	for _, lv := range m.Bids {
		bids.apply(lv.Price, lv.Quantity)
	}

	ob.mu.Lock()
	ob.asks, ob.bids = asks, bids
	ob.state = Snapshotted
	ob.lastTradePrice = m.LastTradePrice
	ob.lastTradeQty = m.LastTradeQuantity
	ob.lastFull = now
	if m.Timestamp != 0 {
		ob.lastFull = wire.Time(m.Timestamp)
	}
	ob.updatedAt = now
	spot, changed := ob.setSpotLocked(m.MarkPrice)
	ob.mu.Unlock()

	ob.publish(spot, changed, true)
}

// ApplyDelta 应用增量：数量为 0 删除该档，否则插入或覆盖。
// 收到首个快照前的增量只更新 mark price，价格档被丢弃，返回 false。
func (ob *OrderBook) ApplyDelta(m *wire.OrderBookUpdated, now time.Time) bool {
	ob.mu.Lock()
	ob.updatedAt = now
	if ob.state == Uninitialized {
		spot, changed := ob.setSpotLocked(m.MarkPrice)
		ob.mu.Unlock()
		ob.publish(spot, changed, false)
		return false
	}
	for _, lv := range m.AskUpdates {
		ob.asks.apply(lv.Price, lv.Quantity)
	}
	for _, lv := range m.BidUpdates {
		ob.bids.apply(lv.Price, lv.Quantity)
	}
	ob.lastTradePrice = m.LastTradePrice
	ob.lastTradeQty = m.LastTradeQuantity
	ob.lastTrades = ob.lastTrades[:0]
	for _, lv := range m.Trades {
		ob.lastTrades = append(ob.lastTrades, Level{Price: lv.Price, Quantity: lv.Quantity})
	}
	if m.LastFullTimestamp != 0 {
		ob.lastFull = wire.Time(m.LastFullTimestamp)
	}
	ob.updateSerial = m.UpdateSerial
	spot, changed := ob.setSpotLocked(m.MarkPrice)
	ob.mu.Unlock()

	ob.deltaFeed.Publish(Delta{
		Symbol: ob.symbol,
		Asks:   toLevels(m.AskUpdates),
		Bids:   toLevels(m.BidUpdates),
		Serial: m.UpdateSerial,
	})
	ob.publish(spot, changed, true)
	return true
}

func toLevels(ls []wire.Level) []Level {
	out := make([]Level, 0, len(ls))
	for _, lv := range ls {
		out = append(out, Level{Price: lv.Price, Quantity: lv.Quantity})
	}
	return out
}

// ApplyExchangeRate 更新现货价；币对过滤由调用方完成。
func (ob *OrderBook) ApplyExchangeRate(m *wire.ExchangeRate, now time.Time) {
	ob.mu.Lock()
	ob.updatedAt = now
	spot, changed := ob.setSpotLocked(m.MarkPrice)
	ob.mu.Unlock()
	ob.publish(spot, changed, false)
}

// ApplyMarketState 保存合约与资金费率参数。
func (ob *OrderBook) ApplyMarketState(m *wire.MarketState, now time.Time) {
	ob.mu.Lock()
	ob.lastTradePrice = m.LastTradePrice
	ob.lastTradeQty = m.LastTradeQuantity
	ob.funding = Funding{
		Rate:              m.FundingRate,
		NextRate:          m.NextFundingRate,
		Time:              wire.Time(m.FundingTime),
		Interval:          time.Duration(m.FundingInterval) * time.Microsecond,
		PayoutPerContract: m.PayoutPerContract,
	}
	ob.daily = m.DailyStats
	if len(m.Candles) > 0 {
		ob.candles = append([]wire.Candle(nil), m.Candles...)
	}
	ob.updatedAt = now
	spot, changed := ob.setSpotLocked(m.SpotPrice)
	ob.mu.Unlock()

	ob.publish(spot, changed, false)
	if len(m.Candles) > 0 {
		ob.candlesFeed.Publish(m.Candles)
	}
}

// ApplyMarketStateUpdate 更新成交、资金费率与现货价。
func (ob *OrderBook) ApplyMarketStateUpdate(m *wire.MarketStateUpdate, now time.Time) {
	ob.mu.Lock()
	ob.lastTradePrice = m.LastTradePrice
	ob.lastTradeQty = m.LastTradeQuantity
	ob.funding.PayoutPerContract = m.PayoutPerContract
	ob.funding.Rate = m.FundingRate
	ob.funding.NextRate = m.NextFundingRate
	ob.funding.Time = wire.Time(m.FundingTime)
	ob.daily = m.DailyStats
	if len(m.Candles) > 0 {
		ob.candles = append([]wire.Candle(nil), m.Candles...)
	}
	ob.updatedAt = now
	spot, changed := ob.setSpotLocked(m.SpotPrice)
	ob.mu.Unlock()

	ob.publish(spot, changed, false)
	if len(m.Candles) > 0 {
		ob.candlesFeed.Publish(m.Candles)
	}
}

// setSpotLocked 设置现货价与 tick 调整价；价格缺失（为 0）时保持原值。
func (ob *OrderBook) setSpotLocked(price decimal.Decimal) (SpotUpdate, bool) {
	if price.IsZero() {
		return SpotUpdate{}, false
	}
	adjusted := ob.symbol.RoundToTick(price)
	changed := !ob.hasSpot || !adjusted.Equal(ob.adjusted)
	ob.spot, ob.adjusted, ob.hasSpot = price, adjusted, true
	return SpotUpdate{Symbol: ob.symbol, Spot: price, Adjusted: adjusted}, changed
}

// publish 在锁外通知订阅者。
func (ob *OrderBook) publish(spot SpotUpdate, spotChanged, bookChanged bool) {
	if spotChanged {
		ob.spotUpdated.Publish(spot)
	}
	if bookChanged {
		ob.updated.Publish(ob)
	}
}

func (ob *OrderBook) State() BookState {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.state
}

// BestAsk 返回最低卖价；无卖单时第二个返回值为 false。
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.asks.min()
}

// BestBid 返回最高买价；无买单时第二个返回值为 false。
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.bids.max()
}

// Mid 返回中间价；若缺失任一侧第二个返回值为 false。
func (ob *OrderBook) Mid() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	ask, okA := ob.asks.min()
	bid, okB := ob.bids.max()
	if !okA || !okB {
		return decimal.Zero, false
	}
	return ask.Add(bid).Div(decimal.NewFromInt(2)), true
}

func (ob *OrderBook) SpotPrice() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.spot, ob.hasSpot
}

// AdjustedSpotPrice 返回按 tick 取整后的现货价。
func (ob *OrderBook) AdjustedSpotPrice() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.adjusted, ob.hasSpot
}

// Asks 返回按价格升序的卖盘。
func (ob *OrderBook) Asks() []Level {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.asks.sorted(false)
}

// Bids 返回按价格降序的买盘。
func (ob *OrderBook) Bids() []Level {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.bids.sorted(true)
}

func (ob *OrderBook) LastTrade() (price, qty decimal.Decimal) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.lastTradePrice, ob.lastTradeQty
}

func (ob *OrderBook) LastTrades() []Level {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return append([]Level(nil), ob.lastTrades...)
}

func (ob *OrderBook) LastFullUpdate() time.Time {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.lastFull
}

func (ob *OrderBook) UpdateSerial() uint64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.updateSerial
}

func (ob *OrderBook) Funding() Funding {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.funding
}

func (ob *OrderBook) DailyStats() wire.DailyStats {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.daily
}

func (ob *OrderBook) Candles() []wire.Candle {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return append([]wire.Candle(nil), ob.candles...)
}

// Staleness 返回距离上次更新的时间间隔；如无数据返回一年。
func (ob *OrderBook) Staleness(now time.Time) time.Duration {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	if ob.updatedAt.IsZero() {
		return time.Hour * 24 * 365
	}
	return now.Sub(ob.updatedAt)
}

// Close 移除全部订阅者。
func (ob *OrderBook) Close() {
	ob.updated.Close()
	ob.spotUpdated.Close()
	ob.candlesFeed.Close()
	ob.deltaFeed.Close()
}
