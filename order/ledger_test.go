package order

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitex-connector/wire"
)

func newTestLedger() (*Ledger, *mockGateway, *countingRecorder) {
	gw := &mockGateway{}
	rec := &countingRecorder{}
	return NewLedger(gw, nil, rec), gw, rec
}

func placeLimit(t *testing.T, l *Ledger, hooks Hooks) Order {
	t.Helper()
	o, err := NewLimit(btc, wire.SideBuy, dec("1"), dec("10000"))
	require.NoError(t, err)
	snap, ok := l.Submit(o, hooks)
	require.True(t, ok)
	return snap
}

func TestPlaceThenAcceptedUpdatesInPlace(t *testing.T) {
	l, gw, _ := newTestLedger()
	o := placeLimit(t, l, Hooks{})

	require.Equal(t, 1, l.Len())
	got, ok := l.Get(o.OrigClientID)
	require.True(t, ok)
	assert.Equal(t, wire.StatusPending, got.Status)
	require.Len(t, gw.placed, 1)
	assert.Equal(t, o.ClientID, gw.placed[0].ID)

	l.ApplyStatus(btc, o.ClientID, &wire.OrderStatus{
		OrigClientID:  o.OrigClientID,
		OrderClientID: o.ClientID,
		Status:        wire.StatusAccepted,
		Quantity:      dec("1"),
		OrigQuantity:  dec("1"),
	})

	assert.Equal(t, 1, l.Len())
	got, _ = l.Get(o.OrigClientID)
	assert.Equal(t, wire.StatusAccepted, got.Status)
}

func TestSubmitRollsBackOnSendFailure(t *testing.T) {
	l, gw, rec := newTestLedger()
	gw.setFail(true)
	o, _ := NewLimit(btc, wire.SideSell, dec("1"), dec("10000"))
	_, ok := l.Submit(o, Hooks{})
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, rec.size)
	assert.Equal(t, 1, rec.events["send_failed"])
}

func TestSubmitDuplicateID(t *testing.T) {
	l, gw, _ := newTestLedger()
	o, _ := NewLimit(btc, wire.SideSell, dec("1"), dec("10000"))
	dup := *o
	_, ok := l.Submit(o, Hooks{})
	require.True(t, ok)
	_, ok = l.Submit(&dup, Hooks{})
	assert.False(t, ok)
	assert.Len(t, gw.placed, 1)
}

func TestCanceledRemovesAfterOneNotification(t *testing.T) {
	l, _, _ := newTestLedger()
	var perOrder []wire.Status
	o := placeLimit(t, l, Hooks{OnStatus: func(o Order) { perOrder = append(perOrder, o.Status) }})
	var changes []Order
	l.Changes().Subscribe(func(o Order) { changes = append(changes, o) })

	l.ApplyStatus(btc, o.ClientID, &wire.OrderStatus{OrigClientID: o.OrigClientID, Status: wire.StatusCanceled})

	assert.Equal(t, 0, l.Len())
	require.Len(t, changes, 1)
	assert.Equal(t, wire.StatusCanceled, changes[0].Status)
	assert.Equal(t, []wire.Status{wire.StatusCanceled}, perOrder)

	// 已移除的订单不再触发回调
	l.ApplyStatus(btc, o.ClientID, &wire.OrderStatus{OrigClientID: o.OrigClientID, Status: wire.StatusCanceled})
	assert.Len(t, changes, 1)
	assert.Equal(t, 0, l.Len())
}

func TestUnknownOrderInsertion(t *testing.T) {
	l, _, _ := newTestLedger()
	id := uuid.New()
	l.ApplyStatus(btc, id, &wire.OrderStatus{OrigClientID: id, Status: wire.StatusRejected, Quantity: dec("1")})
	l.ApplyStatus(btc, id, &wire.OrderStatus{OrigClientID: id, Status: wire.StatusCanceled, Quantity: dec("1")})
	assert.Equal(t, 0, l.Len())

	l.ApplyStatus(btc, id, &wire.OrderStatus{OrigClientID: id, Status: wire.StatusAccepted, Quantity: dec("1")})
	require.Equal(t, 1, l.Len())
	got, ok := l.Get(id)
	require.True(t, ok)
	assert.Equal(t, btc.MarketID, got.Symbol.MarketID)

	// 负数量的回报被跳过，不影响账本
	bad := uuid.New()
	l.ApplyStatus(btc, bad, &wire.OrderStatus{OrigClientID: bad, Status: wire.StatusAccepted, Quantity: dec("-1")})
	assert.Equal(t, 1, l.Len())
}

func TestUnknownOrderWithFinalStatusNotInserted(t *testing.T) {
	l, _, _ := newTestLedger()
	for _, st := range []wire.Status{wire.StatusFilled, wire.StatusExpired, wire.StatusTerminated} {
		id := uuid.New()
		l.ApplyStatus(btc, id, &wire.OrderStatus{OrigClientID: id, Status: st, Quantity: dec("1")})
		assert.Equal(t, 0, l.Len(), "status %s", st)
	}
}

func TestPartialThenFilled(t *testing.T) {
	l, _, _ := newTestLedger()
	o := placeLimit(t, l, Hooks{})
	newID := uuid.New()
	var changes []Order
	l.Changes().Subscribe(func(o Order) { changes = append(changes, o) })

	l.ApplyFilled(btc, &wire.OrderFilled{
		OrigClientID: o.OrigClientID,
		NewClientID:  newID,
		Status:       wire.StatusPartial,
		Side:         wire.SideBuy,
		Type:         wire.TypeLimit,
		Price:        dec("10000"),
		Quantity:     dec("0.4"),
		OrigQuantity: dec("1"),
		RawTrades:    []wire.Trade{{Price: dec("10000"), Quantity: dec("0.6")}},
	})
	require.Equal(t, 1, l.Len())
	got, _ := l.Get(o.OrigClientID)
	assert.Equal(t, wire.StatusPartial, got.Status)
	assert.Equal(t, newID, got.ClientID)
	assert.Equal(t, o.ClientID, got.OldClientID)
	assert.Len(t, got.Trades, 1)
	assert.True(t, got.Quantity.Equal(dec("0.4")))

	// 按新 id 也能查到
	_, ok := l.Get(newID)
	assert.True(t, ok)

	l.ApplyFilled(btc, &wire.OrderFilled{
		OrigClientID: o.OrigClientID,
		Status:       wire.StatusFilled,
		RawTrades:    []wire.Trade{{Price: dec("10005"), Quantity: dec("0.4")}},
	})
	assert.Equal(t, 0, l.Len())
	require.Len(t, changes, 2)
	last := changes[1]
	assert.Equal(t, wire.StatusFilled, last.Status)
	assert.Len(t, last.Trades, 2)
	assert.True(t, last.FilledVolume().Equal(dec("1")))
	assert.True(t, last.FilledPrice().Equal(dec("10002.5")))
}

func TestOrderCanceledMessage(t *testing.T) {
	l, _, _ := newTestLedger()
	a := placeLimit(t, l, Hooks{})
	b := placeLimit(t, l, Hooks{})

	// 撤单被拒绝：订单保持不变
	l.ApplyCanceled(&wire.OrderCanceled{Status: wire.StatusRejected, PrevClientID: a.ClientID})
	assert.Equal(t, 2, l.Len())

	l.ApplyCanceled(&wire.OrderCanceled{
		Status: wire.StatusCanceled,
		Orders: []wire.OrderInfo{{OrigClientID: a.OrigClientID}, {OrigClientID: a.OrigClientID}},
	})
	assert.Equal(t, 1, l.Len())

	l.ApplyCanceled(&wire.OrderCanceled{Status: wire.StatusCanceled, PrevClientID: b.ClientID})
	assert.Equal(t, 0, l.Len())
}

func TestCancelSendsCurrentClientID(t *testing.T) {
	l, gw, _ := newTestLedger()
	o := placeLimit(t, l, Hooks{})
	newID := uuid.New()
	l.ApplyFilled(btc, &wire.OrderFilled{OrigClientID: o.OrigClientID, NewClientID: newID, Status: wire.StatusPartial, Quantity: dec("0.5")})

	assert.True(t, l.Cancel(o.OrigClientID))
	require.Len(t, gw.canceled, 1)
	assert.Equal(t, newID, gw.canceled[0])

	assert.False(t, l.Cancel(uuid.New()))
	assert.True(t, l.CancelAll(btc.MarketID))
	assert.Equal(t, []uint32{btc.MarketID}, gw.cancelAll)
}

func TestHandleErrorRoutesToOrder(t *testing.T) {
	l, _, _ := newTestLedger()
	var gotCode wire.ErrorCode
	var gotID uuid.UUID
	o := placeLimit(t, l, Hooks{OnError: func(o Order, c wire.ErrorCode) { gotID, gotCode = o.OrigClientID, c }})

	assert.True(t, l.HandleError(o.ClientID, wire.CodeNotEnoughBalance))
	assert.Equal(t, o.OrigClientID, gotID)
	assert.Equal(t, wire.CodeNotEnoughBalance, gotCode)
	got, _ := l.Get(o.OrigClientID)
	assert.Equal(t, wire.CodeNotEnoughBalance, got.LastError)

	assert.False(t, l.HandleError(uuid.New(), wire.CodeNotEnoughBalance))
	assert.False(t, l.HandleError(uuid.Nil, wire.CodeNotEnoughBalance))
}

func TestNotificationHandlerMayPlace(t *testing.T) {
	l, gw, _ := newTestLedger()
	o := placeLimit(t, l, Hooks{})
	l.Changes().Subscribe(func(Order) {
		next, _ := NewLimit(btc, wire.SideSell, dec("1"), dec("10010"))
		l.Submit(next, Hooks{})
	})
	l.ApplyStatus(btc, o.ClientID, &wire.OrderStatus{OrigClientID: o.OrigClientID, Status: wire.StatusFilled})
	assert.Equal(t, 1, l.Len())
	assert.Len(t, gw.placed, 2)
}

func TestUpdateOrdersFromLeverage(t *testing.T) {
	l, _, _ := newTestLedger()
	o := placeLimit(t, l, Hooks{})
	other := uuid.New()
	l.UpdateOrders(btc, []wire.OrderInfo{
		{OrigClientID: o.OrigClientID, Leverage: 10, Quantity: dec("1")},
		{OrigClientID: other, Leverage: 10, Quantity: dec("2"), Status: wire.StatusAccepted},
	})
	assert.Equal(t, 2, l.Len())
	got, _ := l.Get(o.OrigClientID)
	assert.Equal(t, uint32(10), got.Leverage)
}

func TestGetOrdersByMarket(t *testing.T) {
	l, _, _ := newTestLedger()
	placeLimit(t, l, Hooks{})
	e, _ := NewMarket(eth, wire.SideBuy, dec("1"))
	_, ok := l.Submit(e, Hooks{})
	require.True(t, ok)

	assert.Len(t, l.GetOrders(), 2)
	assert.Len(t, l.GetOrdersByMarket(btc.MarketID), 1)
	assert.Len(t, l.GetOrdersByMarket(eth.MarketID), 1)
	assert.Empty(t, l.GetOrdersByMarket(99))
}

func TestLedgerConcurrentAccess(t *testing.T) {
	l, _, _ := newTestLedger()
	var wg sync.WaitGroup
	ids := make(chan Order, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, _ := NewLimit(btc, wire.SideBuy, dec("1"), dec("10000"))
			snap, ok := l.Submit(o, Hooks{})
			if ok {
				ids <- snap
			}
		}()
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.GetOrders()
		}()
	}
	wg.Wait()
	close(ids)

	for o := range ids {
		wg.Add(1)
		go func(o Order) {
			defer wg.Done()
			l.ApplyStatus(btc, o.ClientID, &wire.OrderStatus{OrigClientID: o.OrigClientID, Status: wire.StatusAccepted, Quantity: dec("1")})
			l.ApplyStatus(btc, o.ClientID, &wire.OrderStatus{OrigClientID: o.OrigClientID, Status: wire.StatusCanceled})
		}(o)
	}
	wg.Wait()
	assert.Equal(t, 0, l.Len())
}
