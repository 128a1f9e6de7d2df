package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"digitex-connector/market"
	"digitex-connector/wire"
)

// Trade 是一笔成交记录，创建后不再修改。
type Trade struct {
	Symbol           market.Symbol
	TraderID         uint32
	Timestamp        time.Time
	Side             wire.Side
	Position         wire.PositionType
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

// TradeFromWire 把线上成交转换为 Trade。
func TradeFromWire(sym market.Symbol, t wire.Trade) Trade {
	return Trade{
		Symbol:           sym,
		TraderID:         t.TraderID,
		Timestamp:        wire.Time(t.Timestamp),
		Side:             t.Side,
		Position:         t.Position,
		Price:            t.Price,
		Quantity:         t.Quantity,
		PaidPrice:        t.PaidPrice,
		LiquidationPrice: t.LiquidationPrice,
		ExitPrice:        t.ExitPrice,
		Leverage:         t.Leverage,
		ContractID:       t.ContractID,
		OldContractID:    t.OldContractID,
		OrigClientID:     t.OrigClientID,
		OldClientID:      t.OldClientID,
		IsIncrease:       t.IsIncrease,
		IsLiquidation:    t.IsLiquidation,
	}
}

// TradesFromWire 批量转换，空输入返回 nil。
func TradesFromWire(sym market.Symbol, ts []wire.Trade) []Trade {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Trade, 0, len(ts))
	for _, t := range ts {
		out = append(out, TradeFromWire(sym, t))
	}
	return out
}
