package order

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"digitex-connector/market"
	"digitex-connector/wire"
)

type placed struct {
	MarketID uint32
	ID       uuid.UUID
	Type     wire.OrderType
	Side     wire.Side
	Price    decimal.Decimal
	Qty      decimal.Decimal
}

// mockGateway 记录发出的指令，fail 为 true 时模拟通道断开。
type mockGateway struct {
	mu        sync.Mutex
	placed    []placed
	canceled  []uuid.UUID
	cancelAll []uint32
	fail      bool
}

func (m *mockGateway) PlaceOrder(marketID uint32, id uuid.UUID, typ wire.OrderType, side wire.Side, _ wire.Duration, price, qty decimal.Decimal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false
	}
	m.placed = append(m.placed, placed{MarketID: marketID, ID: id, Type: typ, Side: side, Price: price, Qty: qty})
	return true
}

func (m *mockGateway) CancelOrder(_ uint32, _ uuid.UUID, prev uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false
	}
	m.canceled = append(m.canceled, prev)
	return true
}

func (m *mockGateway) CancelAllOrders(marketID uint32, _ uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false
	}
	m.cancelAll = append(m.cancelAll, marketID)
	return true
}

func (m *mockGateway) setFail(v bool) {
	m.mu.Lock()
	m.fail = v
	m.mu.Unlock()
}

func (m *mockGateway) placedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.placed)
}

type countingRecorder struct {
	mu     sync.Mutex
	size   int
	events map[string]int
}

func (c *countingRecorder) SetLedgerSize(n int) {
	c.mu.Lock()
	c.size = n
	c.mu.Unlock()
}

func (c *countingRecorder) RecordOrderEvent(ev string) {
	c.mu.Lock()
	if c.events == nil {
		c.events = make(map[string]int)
	}
	c.events[ev]++
	c.mu.Unlock()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var btc = market.Symbol{
	MarketID:       1,
	Name:           "BTCUSD-PERP",
	PriceStep:      dec("5"),
	QuantityStep:   dec("1"),
	CurrencyPairID: 1,
}

var eth = market.Symbol{
	MarketID:       2,
	Name:           "ETHUSD-PERP",
	PriceStep:      dec("0.25"),
	QuantityStep:   dec("1"),
	CurrencyPairID: 2,
}
