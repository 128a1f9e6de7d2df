package wire

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protowire"
)

// Account holds the margin and pnl fields that control messages share.
type Account struct {
	PositionMargin    decimal.Decimal
	OrderMargin       decimal.Decimal
	TraderBalance     decimal.Decimal
	Upnl              decimal.Decimal
	Pnl               decimal.Decimal
	BuyOrderMargin    decimal.Decimal
	SellOrderMargin   decimal.Decimal
	AccumQuantity     decimal.Decimal
	BuyOrderQuantity  decimal.Decimal
	SellOrderQuantity decimal.Decimal
}

func (a *Account) marshal(e *encoder) {
	e.decimal(1, a.PositionMargin)
	e.decimal(2, a.OrderMargin)
	e.decimal(3, a.TraderBalance)
	e.decimal(4, a.Upnl)
	e.decimal(5, a.Pnl)
	e.decimal(6, a.BuyOrderMargin)
	e.decimal(7, a.SellOrderMargin)
	e.decimal(8, a.AccumQuantity)
	e.decimal(9, a.BuyOrderQuantity)
	e.decimal(10, a.SellOrderQuantity)
}

func (a *Account) set(d *decoder, f field) {
	switch f.num {
	case 1:
		a.PositionMargin = d.decimal(f)
	case 2:
		a.OrderMargin = d.decimal(f)
	case 3:
		a.TraderBalance = d.decimal(f)
	case 4:
		a.Upnl = d.decimal(f)
	case 5:
		a.Pnl = d.decimal(f)
	case 6:
		a.BuyOrderMargin = d.decimal(f)
	case 7:
		a.SellOrderMargin = d.decimal(f)
	case 8:
		a.AccumQuantity = d.decimal(f)
	case 9:
		a.BuyOrderQuantity = d.decimal(f)
	case 10:
		a.SellOrderQuantity = d.decimal(f)
	}
}

// Position is the trader's open position on a market.
type Position struct {
	Type              PositionType
	Contracts         decimal.Decimal
	Volume            decimal.Decimal
	LiquidationVolume decimal.Decimal
	BankruptcyVolume  decimal.Decimal
	LastTradePrice    decimal.Decimal
	LastTradeQuantity decimal.Decimal
}

func (p *Position) marshal(e *encoder) {
	e.uint(1, uint64(p.Type))
	e.decimal(2, p.Contracts)
	e.decimal(3, p.Volume)
	e.decimal(4, p.LiquidationVolume)
	e.decimal(5, p.BankruptcyVolume)
	e.decimal(6, p.LastTradePrice)
	e.decimal(7, p.LastTradeQuantity)
}

func (p *Position) set(d *decoder, f field) {
	switch f.num {
	case 1:
		p.Type = PositionType(f.v)
	case 2:
		p.Contracts = d.decimal(f)
	case 3:
		p.Volume = d.decimal(f)
	case 4:
		p.LiquidationVolume = d.decimal(f)
	case 5:
		p.BankruptcyVolume = d.decimal(f)
	case 6:
		p.LastTradePrice = d.decimal(f)
	case 7:
		p.LastTradeQuantity = d.decimal(f)
	}
}

// Trade is one execution as reported by the exchange.
type Trade struct {
	TraderID         uint32
	Timestamp        int64
	Side             Side
	Position         PositionType
	Price            decimal.Decimal
	Quantity         decimal.Decimal
	PaidPrice        decimal.Decimal
	LiquidationPrice decimal.Decimal
	ExitPrice        decimal.Decimal
	Leverage         uint32
	ContractID       uint64
	OldContractID    uint64
	OrigClientID     uuid.UUID
	OldClientID      uuid.UUID
	IsIncrease       bool
	IsLiquidation    bool
}

func (t *Trade) marshal(e *encoder) {
	e.uint(1, uint64(t.TraderID))
	e.sint(2, t.Timestamp)
	e.uint(3, uint64(t.Position))
	e.decimal(4, t.Price)
	e.decimal(5, t.Quantity)
	e.decimal(6, t.PaidPrice)
	e.decimal(7, t.LiquidationPrice)
	e.decimal(8, t.ExitPrice)
	e.uint(9, uint64(t.Leverage))
	e.uint(10, t.ContractID)
	e.uint(11, t.OldContractID)
	e.uuid(12, t.OrigClientID)
	e.uuid(13, t.OldClientID)
	e.bool(14, t.IsIncrease)
	e.bool(15, t.IsLiquidation)
	e.uint(16, uint64(t.Side))
}

func (t *Trade) set(d *decoder, f field) {
	switch f.num {
	case 1:
		t.TraderID = uint32(f.v)
	case 2:
		t.Timestamp = f.int64()
	case 3:
		t.Position = PositionType(f.v)
	case 4:
		t.Price = d.decimal(f)
	case 5:
		t.Quantity = d.decimal(f)
	case 6:
		t.PaidPrice = d.decimal(f)
	case 7:
		t.LiquidationPrice = d.decimal(f)
	case 8:
		t.ExitPrice = d.decimal(f)
	case 9:
		t.Leverage = uint32(f.v)
	case 10:
		t.ContractID = f.v
	case 11:
		t.OldContractID = f.v
	case 12:
		t.OrigClientID = d.uuid(f)
	case 13:
		t.OldClientID = d.uuid(f)
	case 14:
		t.IsIncrease = f.v != 0
	case 15:
		t.IsLiquidation = f.v != 0
	case 16:
		t.Side = Side(f.v)
	}
}

// OrderInfo is an open order as listed in status and cancel replies.
type OrderInfo struct {
	ClientID       uuid.UUID
	OrigClientID   uuid.UUID
	OldClientID    uuid.UUID
	Type           OrderType
	Side           Side
	Duration       Duration
	Status         Status
	Price          decimal.Decimal
	PaidPrice      decimal.Decimal
	Quantity       decimal.Decimal
	OrigQuantity   decimal.Decimal
	FilledQuantity decimal.Decimal
	Leverage       uint32
	OpenTime       int64
	Timestamp      int64
	ContractID     uint64
	OldContractID  uint64
}

func (o *OrderInfo) marshal(e *encoder) {
	e.uuid(1, o.ClientID)
	e.uuid(2, o.OrigClientID)
	e.uuid(3, o.OldClientID)
	e.uint(4, uint64(o.Type))
	e.uint(5, uint64(o.Side))
	e.uint(6, uint64(o.Duration))
	e.uint(7, uint64(o.Status))
	e.decimal(8, o.Price)
	e.decimal(9, o.PaidPrice)
	e.decimal(10, o.Quantity)
	e.decimal(11, o.OrigQuantity)
	e.decimal(12, o.FilledQuantity)
	e.uint(13, uint64(o.Leverage))
	e.sint(14, o.OpenTime)
	e.sint(15, o.Timestamp)
	e.uint(16, o.ContractID)
	e.uint(17, o.OldContractID)
}

func (o *OrderInfo) set(d *decoder, f field) {
	switch f.num {
	case 1:
		o.ClientID = d.uuid(f)
	case 2:
		o.OrigClientID = d.uuid(f)
	case 3:
		o.OldClientID = d.uuid(f)
	case 4:
		o.Type = OrderType(f.v)
	case 5:
		o.Side = Side(f.v)
	case 6:
		o.Duration = Duration(f.v)
	case 7:
		o.Status = Status(f.v)
	case 8:
		o.Price = d.decimal(f)
	case 9:
		o.PaidPrice = d.decimal(f)
	case 10:
		o.Quantity = d.decimal(f)
	case 11:
		o.OrigQuantity = d.decimal(f)
	case 12:
		o.FilledQuantity = d.decimal(f)
	case 13:
		o.Leverage = uint32(f.v)
	case 14:
		o.OpenTime = f.int64()
	case 15:
		o.Timestamp = f.int64()
	case 16:
		o.ContractID = f.v
	case 17:
		o.OldContractID = f.v
	}
}

// Level is one price/quantity pair of a book ladder or a trade print.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

func (l *Level) marshal(e *encoder) {
	e.decimal(1, l.Price)
	e.decimal(2, l.Quantity)
}

func (l *Level) set(d *decoder, f field) {
	switch f.num {
	case 1:
		l.Price = d.decimal(f)
	case 2:
		l.Quantity = d.decimal(f)
	}
}

// Candle is an OHLCV bar.
type Candle struct {
	Timestamp int64
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

func (c *Candle) marshal(e *encoder) {
	e.sint(1, c.Timestamp)
	e.decimal(2, c.Open)
	e.decimal(3, c.High)
	e.decimal(4, c.Low)
	e.decimal(5, c.Close)
	e.decimal(6, c.Volume)
}

func (c *Candle) set(d *decoder, f field) {
	switch f.num {
	case 1:
		c.Timestamp = f.int64()
	case 2:
		c.Open = d.decimal(f)
	case 3:
		c.High = d.decimal(f)
	case 4:
		c.Low = d.decimal(f)
	case 5:
		c.Close = d.decimal(f)
	case 6:
		c.Volume = d.decimal(f)
	}
}

// DailyStats summarises the last 24 hours of a market.
type DailyStats struct {
	High        decimal.Decimal
	Low         decimal.Decimal
	Volume      decimal.Decimal
	PriceChange decimal.Decimal
}

func (s *DailyStats) marshal(e *encoder) {
	e.decimal(1, s.High)
	e.decimal(2, s.Low)
	e.decimal(3, s.Volume)
	e.decimal(4, s.PriceChange)
}

func (s *DailyStats) set(d *decoder, f field) {
	switch f.num {
	case 1:
		s.High = d.decimal(f)
	case 2:
		s.Low = d.decimal(f)
	case 3:
		s.Volume = d.decimal(f)
	case 4:
		s.PriceChange = d.decimal(f)
	}
}

func marshalLevels(e *encoder, n protowire.Number, levels []Level) {
	for i := range levels {
		e.message(n, levels[i].marshal)
	}
}

func marshalTrades(e *encoder, n protowire.Number, trades []Trade) {
	for i := range trades {
		e.message(n, trades[i].marshal)
	}
}

func marshalOrders(e *encoder, n protowire.Number, orders []OrderInfo) {
	for i := range orders {
		e.message(n, orders[i].marshal)
	}
}

func marshalCandles(e *encoder, n protowire.Number, candles []Candle) {
	for i := range candles {
		e.message(n, candles[i].marshal)
	}
}

func (d *decoder) level(f field) Level {
	var l Level
	d.message(f, l.set)
	return l
}

func (d *decoder) trade(f field) Trade {
	var t Trade
	d.message(f, t.set)
	return t
}

func (d *decoder) order(f field) OrderInfo {
	var o OrderInfo
	d.message(f, o.set)
	return o
}

func (d *decoder) candle(f field) Candle {
	var c Candle
	d.message(f, c.set)
	return c
}
