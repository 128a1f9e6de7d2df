package wire

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus reports a status change of a single order.
type OrderStatus struct {
	Account        Account
	Status         Status
	Side           Side
	Type           OrderType
	Duration       Duration
	Leverage       uint32
	MarkPrice      decimal.Decimal
	Price          decimal.Decimal
	PaidPrice      decimal.Decimal
	Quantity       decimal.Decimal
	OrigQuantity   decimal.Decimal
	OrigClientID   uuid.UUID
	OrderClientID  uuid.UUID
	OldContractID  uint64
	OrderTimestamp int64
	OpenTime       int64
}

func (*OrderStatus) Kind() Kind { return KindOrderStatus }

func (m *OrderStatus) marshal(e *encoder) {
	e.message(1, m.Account.marshal)
	e.uint(2, uint64(m.Status))
	e.uint(3, uint64(m.Side))
	e.uint(4, uint64(m.Type))
	e.uint(5, uint64(m.Duration))
	e.uint(6, uint64(m.Leverage))
	e.decimal(7, m.MarkPrice)
	e.decimal(8, m.Price)
	e.decimal(9, m.PaidPrice)
	e.decimal(10, m.Quantity)
	e.decimal(11, m.OrigQuantity)
	e.uuid(12, m.OrigClientID)
	e.uuid(13, m.OrderClientID)
	e.uint(14, m.OldContractID)
	e.sint(15, m.OrderTimestamp)
	e.sint(16, m.OpenTime)
}

func (m *OrderStatus) set(d *decoder, f field) {
	switch f.num {
	case 1:
		d.message(f, m.Account.set)
	case 2:
		m.Status = Status(f.v)
	case 3:
		m.Side = Side(f.v)
	case 4:
		m.Type = OrderType(f.v)
	case 5:
		m.Duration = Duration(f.v)
	case 6:
		m.Leverage = uint32(f.v)
	case 7:
		m.MarkPrice = d.decimal(f)
	case 8:
		m.Price = d.decimal(f)
	case 9:
		m.PaidPrice = d.decimal(f)
	case 10:
		m.Quantity = d.decimal(f)
	case 11:
		m.OrigQuantity = d.decimal(f)
	case 12:
		m.OrigClientID = d.uuid(f)
	case 13:
		m.OrderClientID = d.uuid(f)
	case 14:
		m.OldContractID = f.v
	case 15:
		m.OrderTimestamp = f.int64()
	case 16:
		m.OpenTime = f.int64()
	}
}

// OrderFilled reports a full or partial execution. A partial fill renames the
// remainder to NewClientID.
type OrderFilled struct {
	Account         Account
	Position        Position
	Status          Status
	NewClientID     uuid.UUID
	OrigClientID    uuid.UUID
	DroppedQuantity decimal.Decimal
	Side            Side
	Type            OrderType
	Duration        Duration
	Leverage        uint32
	Price           decimal.Decimal
	Quantity        decimal.Decimal
	PaidPrice       decimal.Decimal
	MarkPrice       decimal.Decimal
	OrigQuantity    decimal.Decimal
	OpenTime        int64
	Trades          []Trade
	RawTrades       []Trade
}

func (*OrderFilled) Kind() Kind { return KindOrderFilled }

func (m *OrderFilled) marshal(e *encoder) {
	e.message(1, m.Account.marshal)
	e.message(2, m.Position.marshal)
	e.uint(3, uint64(m.Status))
	e.uuid(4, m.NewClientID)
	e.uuid(5, m.OrigClientID)
	e.decimal(6, m.DroppedQuantity)
	e.uint(7, uint64(m.Side))
	e.uint(8, uint64(m.Type))
	e.uint(9, uint64(m.Duration))
	e.uint(10, uint64(m.Leverage))
	e.decimal(11, m.Price)
	e.decimal(12, m.Quantity)
	e.decimal(13, m.PaidPrice)
	e.decimal(14, m.MarkPrice)
	e.decimal(15, m.OrigQuantity)
	e.sint(16, m.OpenTime)
	marshalTrades(e, 17, m.Trades)
	marshalTrades(e, 18, m.RawTrades)
}

func (m *OrderFilled) set(d *decoder, f field) {
	switch f.num {
	case 1:
		d.message(f, m.Account.set)
	case 2:
		d.message(f, m.Position.set)
	case 3:
		m.Status = Status(f.v)
	case 4:
		m.NewClientID = d.uuid(f)
	case 5:
		m.OrigClientID = d.uuid(f)
	case 6:
		m.DroppedQuantity = d.decimal(f)
	case 7:
		m.Side = Side(f.v)
	case 8:
		m.Type = OrderType(f.v)
	case 9:
		m.Duration = Duration(f.v)
	case 10:
		m.Leverage = uint32(f.v)
	case 11:
		m.Price = d.decimal(f)
	case 12:
		m.Quantity = d.decimal(f)
	case 13:
		m.PaidPrice = d.decimal(f)
	case 14:
		m.MarkPrice = d.decimal(f)
	case 15:
		m.OrigQuantity = d.decimal(f)
	case 16:
		m.OpenTime = f.int64()
	case 17:
		m.Trades = append(m.Trades, d.trade(f))
	case 18:
		m.RawTrades = append(m.RawTrades, d.trade(f))
	}
}

// TraderStatus is the authoritative account snapshot for one market.
type TraderStatus struct {
	Account   Account
	Position  Position
	MarkPrice decimal.Decimal
	Leverage  uint32
	Orders    []OrderInfo
	Trades    []Trade
}

func (*TraderStatus) Kind() Kind { return KindTraderStatus }

func (m *TraderStatus) marshal(e *encoder) {
	e.message(1, m.Account.marshal)
	e.message(2, m.Position.marshal)
	e.decimal(3, m.MarkPrice)
	e.uint(4, uint64(m.Leverage))
	marshalOrders(e, 5, m.Orders)
	marshalTrades(e, 6, m.Trades)
}

func (m *TraderStatus) set(d *decoder, f field) {
	switch f.num {
	case 1:
		d.message(f, m.Account.set)
	case 2:
		d.message(f, m.Position.set)
	case 3:
		m.MarkPrice = d.decimal(f)
	case 4:
		m.Leverage = uint32(f.v)
	case 5:
		m.Orders = append(m.Orders, d.order(f))
	case 6:
		m.Trades = append(m.Trades, d.trade(f))
	}
}

// TraderBalance reports a balance change in one currency.
type TraderBalance struct {
	CurrencyID     uint32
	TraderBalance  decimal.Decimal
	PositionMargin decimal.Decimal
	OrderMargin    decimal.Decimal
}

func (*TraderBalance) Kind() Kind { return KindTraderBalance }

func (m *TraderBalance) marshal(e *encoder) {
	e.uint(1, uint64(m.CurrencyID))
	e.decimal(2, m.TraderBalance)
	e.decimal(3, m.PositionMargin)
	e.decimal(4, m.OrderMargin)
}

func (m *TraderBalance) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.CurrencyID = uint32(f.v)
	case 2:
		m.TraderBalance = d.decimal(f)
	case 3:
		m.PositionMargin = d.decimal(f)
	case 4:
		m.OrderMargin = d.decimal(f)
	}
}

// Funding reports a funding payment.
type Funding struct {
	Account              Account
	Position             Position
	MarkPrice            decimal.Decimal
	PayoutPerContract    decimal.Decimal
	Payout               decimal.Decimal
	PositionMarginChange decimal.Decimal
	Trades               []Trade
}

func (*Funding) Kind() Kind { return KindFunding }

func (m *Funding) marshal(e *encoder) {
	e.message(1, m.Account.marshal)
	e.message(2, m.Position.marshal)
	e.decimal(3, m.MarkPrice)
	e.decimal(4, m.PayoutPerContract)
	e.decimal(5, m.Payout)
	e.decimal(6, m.PositionMarginChange)
	marshalTrades(e, 7, m.Trades)
}

func (m *Funding) set(d *decoder, f field) {
	switch f.num {
	case 1:
		d.message(f, m.Account.set)
	case 2:
		d.message(f, m.Position.set)
	case 3:
		m.MarkPrice = d.decimal(f)
	case 4:
		m.PayoutPerContract = d.decimal(f)
	case 5:
		m.Payout = d.decimal(f)
	case 6:
		m.PositionMarginChange = d.decimal(f)
	case 7:
		m.Trades = append(m.Trades, d.trade(f))
	}
}

// OrderCanceled acknowledges a cancel request. Status is Rejected when the
// cancel itself failed.
type OrderCanceled struct {
	Account      Account
	Status       Status
	PrevClientID uuid.UUID
	MarkPrice    decimal.Decimal
	Orders       []OrderInfo
}

func (*OrderCanceled) Kind() Kind { return KindOrderCanceled }

func (m *OrderCanceled) marshal(e *encoder) {
	e.message(1, m.Account.marshal)
	e.uint(2, uint64(m.Status))
	e.uuid(3, m.PrevClientID)
	e.decimal(4, m.MarkPrice)
	marshalOrders(e, 5, m.Orders)
}

func (m *OrderCanceled) set(d *decoder, f field) {
	switch f.num {
	case 1:
		d.message(f, m.Account.set)
	case 2:
		m.Status = Status(f.v)
	case 3:
		m.PrevClientID = d.uuid(f)
	case 4:
		m.MarkPrice = d.decimal(f)
	case 5:
		m.Orders = append(m.Orders, d.order(f))
	}
}

// OrderBook is a full book snapshot.
type OrderBook struct {
	MarkPrice         decimal.Decimal
	LastTradePrice    decimal.Decimal
	LastTradeQuantity decimal.Decimal
	Asks              []Level
	Bids              []Level
	Timestamp         int64
}

func (*OrderBook) Kind() Kind { return KindOrderBook }

func (m *OrderBook) marshal(e *encoder) {
	e.decimal(1, m.MarkPrice)
	e.decimal(2, m.LastTradePrice)
	e.decimal(3, m.LastTradeQuantity)
	marshalLevels(e, 4, m.Asks)
	marshalLevels(e, 5, m.Bids)
	e.sint(6, m.Timestamp)
}

func (m *OrderBook) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.MarkPrice = d.decimal(f)
	case 2:
		m.LastTradePrice = d.decimal(f)
	case 3:
		m.LastTradeQuantity = d.decimal(f)
	case 4:
		m.Asks = append(m.Asks, d.level(f))
	case 5:
		m.Bids = append(m.Bids, d.level(f))
	case 6:
		m.Timestamp = f.int64()
	}
}

// OrderBookUpdated is an incremental book delta. A zero quantity removes the
// level.
type OrderBookUpdated struct {
	AskUpdates        []Level
	BidUpdates        []Level
	Trades            []Level
	LastFullTimestamp int64
	LastTradePrice    decimal.Decimal
	LastTradeQuantity decimal.Decimal
	MarkPrice         decimal.Decimal
	UpdateSerial      uint64
}

func (*OrderBookUpdated) Kind() Kind { return KindOrderBookUpdated }

func (m *OrderBookUpdated) marshal(e *encoder) {
	marshalLevels(e, 1, m.AskUpdates)
	marshalLevels(e, 2, m.BidUpdates)
	marshalLevels(e, 3, m.Trades)
	e.sint(4, m.LastFullTimestamp)
	e.decimal(5, m.LastTradePrice)
	e.decimal(6, m.LastTradeQuantity)
	e.decimal(7, m.MarkPrice)
	e.uint(8, m.UpdateSerial)
}

func (m *OrderBookUpdated) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.AskUpdates = append(m.AskUpdates, d.level(f))
	case 2:
		m.BidUpdates = append(m.BidUpdates, d.level(f))
	case 3:
		m.Trades = append(m.Trades, d.level(f))
	case 4:
		m.LastFullTimestamp = f.int64()
	case 5:
		m.LastTradePrice = d.decimal(f)
	case 6:
		m.LastTradeQuantity = d.decimal(f)
	case 7:
		m.MarkPrice = d.decimal(f)
	case 8:
		m.UpdateSerial = f.v
	}
}

// ExchangeRate carries the spot price of a currency pair.
type ExchangeRate struct {
	CurrencyPairID uint32
	MarkPrice      decimal.Decimal
}

func (*ExchangeRate) Kind() Kind { return KindExchangeRate }

func (m *ExchangeRate) marshal(e *encoder) {
	e.uint(1, uint64(m.CurrencyPairID))
	e.decimal(2, m.MarkPrice)
}

func (m *ExchangeRate) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.CurrencyPairID = uint32(f.v)
	case 2:
		m.MarkPrice = d.decimal(f)
	}
}

// MarketState answers GetMarketState.
type MarketState struct {
	EventTimestamp    int64
	FundingRate       decimal.Decimal
	NextFundingRate   decimal.Decimal
	FundingTime       int64
	FundingInterval   int64
	LastTradePrice    decimal.Decimal
	LastTradeQuantity decimal.Decimal
	ContractValue     decimal.Decimal
	TickPrice         decimal.Decimal
	TickValue         decimal.Decimal
	PayoutPerContract decimal.Decimal
	DailyStats        DailyStats
	Candles           []Candle
	SpotPrice         decimal.Decimal
}

func (*MarketState) Kind() Kind { return KindMarketState }

func (m *MarketState) marshal(e *encoder) {
	e.sint(1, m.EventTimestamp)
	e.decimal(2, m.FundingRate)
	e.decimal(3, m.NextFundingRate)
	e.sint(4, m.FundingTime)
	e.sint(5, m.FundingInterval)
	e.decimal(6, m.LastTradePrice)
	e.decimal(7, m.LastTradeQuantity)
	e.decimal(8, m.ContractValue)
	e.decimal(9, m.TickPrice)
	e.decimal(10, m.TickValue)
	e.decimal(11, m.PayoutPerContract)
	e.message(12, m.DailyStats.marshal)
	marshalCandles(e, 13, m.Candles)
	e.decimal(14, m.SpotPrice)
}

func (m *MarketState) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.EventTimestamp = f.int64()
	case 2:
		m.FundingRate = d.decimal(f)
	case 3:
		m.NextFundingRate = d.decimal(f)
	case 4:
		m.FundingTime = f.int64()
	case 5:
		m.FundingInterval = f.int64()
	case 6:
		m.LastTradePrice = d.decimal(f)
	case 7:
		m.LastTradeQuantity = d.decimal(f)
	case 8:
		m.ContractValue = d.decimal(f)
	case 9:
		m.TickPrice = d.decimal(f)
	case 10:
		m.TickValue = d.decimal(f)
	case 11:
		m.PayoutPerContract = d.decimal(f)
	case 12:
		d.message(f, m.DailyStats.set)
	case 13:
		m.Candles = append(m.Candles, d.candle(f))
	case 14:
		m.SpotPrice = d.decimal(f)
	}
}

// MarketStateUpdate is the periodic market ticker.
type MarketStateUpdate struct {
	SpotPrice         decimal.Decimal
	FundingRate       decimal.Decimal
	NextFundingRate   decimal.Decimal
	FundingTime       int64
	PayoutPerContract decimal.Decimal
	LastTradePrice    decimal.Decimal
	LastTradeQuantity decimal.Decimal
	DailyStats        DailyStats
	Candles           []Candle
}

func (*MarketStateUpdate) Kind() Kind { return KindMarketStateUpdate }

func (m *MarketStateUpdate) marshal(e *encoder) {
	e.decimal(1, m.SpotPrice)
	e.decimal(2, m.FundingRate)
	e.decimal(3, m.NextFundingRate)
	e.sint(4, m.FundingTime)
	e.decimal(5, m.PayoutPerContract)
	e.decimal(6, m.LastTradePrice)
	e.decimal(7, m.LastTradeQuantity)
	e.message(8, m.DailyStats.marshal)
	marshalCandles(e, 9, m.Candles)
}

func (m *MarketStateUpdate) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.SpotPrice = d.decimal(f)
	case 2:
		m.FundingRate = d.decimal(f)
	case 3:
		m.NextFundingRate = d.decimal(f)
	case 4:
		m.FundingTime = f.int64()
	case 5:
		m.PayoutPerContract = d.decimal(f)
	case 6:
		m.LastTradePrice = d.decimal(f)
	case 7:
		m.LastTradeQuantity = d.decimal(f)
	case 8:
		d.message(f, m.DailyStats.set)
	case 9:
		m.Candles = append(m.Candles, d.candle(f))
	}
}

// Leverage answers ChangeLeverageAll.
type Leverage struct {
	Account  Account
	Position Position
	Leverage uint32
	Orders   []OrderInfo
	Trades   []Trade
}

func (*Leverage) Kind() Kind { return KindLeverage }

func (m *Leverage) marshal(e *encoder) {
	e.message(1, m.Account.marshal)
	e.message(2, m.Position.marshal)
	e.uint(3, uint64(m.Leverage))
	marshalOrders(e, 4, m.Orders)
	marshalTrades(e, 5, m.Trades)
}

func (m *Leverage) set(d *decoder, f field) {
	switch f.num {
	case 1:
		d.message(f, m.Account.set)
	case 2:
		d.message(f, m.Position.set)
	case 3:
		m.Leverage = uint32(f.v)
	case 4:
		m.Orders = append(m.Orders, d.order(f))
	case 5:
		m.Trades = append(m.Trades, d.trade(f))
	}
}
