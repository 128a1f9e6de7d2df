package wire

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Content is the payload of an envelope. The set of implementations is closed
// to this package.
type Content interface {
	Kind() Kind
	marshal(e *encoder)
	set(d *decoder, f field)
}

// PlaceOrder submits a new order. The envelope client id becomes the order id.
type PlaceOrder struct {
	Type     OrderType
	Side     Side
	Duration Duration
	Leverage uint32
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

func (*PlaceOrder) Kind() Kind { return KindPlaceOrder }

func (m *PlaceOrder) marshal(e *encoder) {
	e.uint(1, uint64(m.Type))
	e.uint(2, uint64(m.Side))
	e.uint(3, uint64(m.Duration))
	e.uint(4, uint64(m.Leverage))
	e.decimal(5, m.Price)
	e.decimal(6, m.Quantity)
}

func (m *PlaceOrder) set(d *decoder, f field) {
	switch f.num {
	case 1:
		m.Type = OrderType(f.v)
	case 2:
		m.Side = Side(f.v)
	case 3:
		m.Duration = Duration(f.v)
	case 4:
		m.Leverage = uint32(f.v)
	case 5:
		m.Price = d.decimal(f)
	case 6:
		m.Quantity = d.decimal(f)
	}
}

// CancelOrder cancels the order currently known as PrevClientID.
type CancelOrder struct {
	PrevClientID uuid.UUID
}

func (*CancelOrder) Kind() Kind { return KindCancelOrder }

func (m *CancelOrder) marshal(e *encoder) { e.uuid(1, m.PrevClientID) }

func (m *CancelOrder) set(d *decoder, f field) {
	if f.num == 1 {
		m.PrevClientID = d.uuid(f)
	}
}

// CancelAllOrders cancels every open order on the envelope's market.
type CancelAllOrders struct{}

func (*CancelAllOrders) Kind() Kind          { return KindCancelAllOrders }
func (*CancelAllOrders) marshal(*encoder)    {}
func (*CancelAllOrders) set(*decoder, field) {}

// GetTraderStatus asks for the authoritative list of open orders and the
// trader's account state.
type GetTraderStatus struct{}

func (*GetTraderStatus) Kind() Kind          { return KindGetTraderStatus }
func (*GetTraderStatus) marshal(*encoder)    {}
func (*GetTraderStatus) set(*decoder, field) {}

// OrderBookRequest asks for a full order book snapshot.
type OrderBookRequest struct{}

func (*OrderBookRequest) Kind() Kind          { return KindOrderBookRequest }
func (*OrderBookRequest) marshal(*encoder)    {}
func (*OrderBookRequest) set(*decoder, field) {}

// GetMarketState asks for funding and contract parameters of a market.
type GetMarketState struct{}

func (*GetMarketState) Kind() Kind          { return KindGetMarketState }
func (*GetMarketState) marshal(*encoder)    {}
func (*GetMarketState) set(*decoder, field) {}

// ChangeLeverageAll sets the leverage of the position and every open order.
type ChangeLeverageAll struct {
	Leverage uint32
}

func (*ChangeLeverageAll) Kind() Kind { return KindChangeLeverageAll }

func (m *ChangeLeverageAll) marshal(e *encoder) { e.uint(1, uint64(m.Leverage)) }

func (m *ChangeLeverageAll) set(_ *decoder, f field) {
	if f.num == 1 {
		m.Leverage = uint32(f.v)
	}
}
