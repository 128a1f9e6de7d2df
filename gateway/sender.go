package gateway

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"digitex-connector/wire"
)

// PlaceOrder 下单；交易所忽略杠杆字段，固定为 1。
func (c *Connection) PlaceOrder(marketID uint32, id uuid.UUID, typ wire.OrderType, side wire.Side, dur wire.Duration, price, qty decimal.Decimal) bool {
	return c.Send(&wire.PlaceOrder{
		Type:     typ,
		Side:     side,
		Duration: dur,
		Leverage: 1,
		Price:    price,
		Quantity: qty,
	}, marketID, id)
}

// CancelOrder 撤销当前 id 为 prevClientID 的订单。
func (c *Connection) CancelOrder(marketID uint32, requestID, prevClientID uuid.UUID) bool {
	return c.Send(&wire.CancelOrder{PrevClientID: prevClientID}, marketID, requestID)
}

func (c *Connection) CancelAllOrders(marketID uint32, requestID uuid.UUID) bool {
	return c.Send(&wire.CancelAllOrders{}, marketID, requestID)
}

func (c *Connection) RequestTraderStatus(marketID uint32, requestID uuid.UUID) bool {
	return c.Send(&wire.GetTraderStatus{}, marketID, requestID)
}

func (c *Connection) RequestOrderBook(marketID uint32, requestID uuid.UUID) bool {
	return c.Send(&wire.OrderBookRequest{}, marketID, requestID)
}

func (c *Connection) RequestMarketState(marketID uint32, requestID uuid.UUID) bool {
	return c.Send(&wire.GetMarketState{}, marketID, requestID)
}

func (c *Connection) ChangeLeverage(marketID uint32, requestID uuid.UUID, leverage uint32) bool {
	return c.Send(&wire.ChangeLeverageAll{Leverage: leverage}, marketID, requestID)
}
