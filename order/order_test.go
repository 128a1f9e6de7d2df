package order

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitex-connector/wire"
)

func TestNewLimitDefaults(t *testing.T) {
	o, err := NewLimit(btc, wire.SideBuy, dec("2"), dec("10000"))
	require.NoError(t, err)
	assert.Equal(t, KindLimit, o.Kind)
	assert.Equal(t, wire.TypeLimit, o.Type)
	assert.Equal(t, wire.StatusPending, o.Status)
	assert.Equal(t, wire.DurationGTC, o.Duration)
	assert.Equal(t, uint32(1), o.Leverage)
	assert.NotEqual(t, uuid.Nil, o.ClientID)
	assert.Equal(t, o.ClientID, o.OrigClientID)
	assert.Nil(t, o.Trailing)
}

func TestNegativeQuantityRejected(t *testing.T) {
	_, err := NewLimit(btc, wire.SideBuy, dec("-1"), dec("10000"))
	assert.True(t, errors.Is(err, ErrNegativeQuantity))
	_, err = NewMarket(btc, wire.SideSell, dec("-0.5"))
	assert.True(t, errors.Is(err, ErrNegativeQuantity))
	_, err = FromStatus(btc, uuid.New(), &wire.OrderStatus{Quantity: dec("-3")})
	assert.True(t, errors.Is(err, ErrNegativeQuantity))
	_, err = FromInfo(btc, wire.OrderInfo{Quantity: dec("-3")})
	assert.True(t, errors.Is(err, ErrNegativeQuantity))
}

func TestTrailingStrikePrice(t *testing.T) {
	buy, err := NewTrailingStop(btc, wire.SideBuy, dec("1"), dec("10000"), 3)
	require.NoError(t, err)
	assert.Equal(t, wire.TypeMarket, buy.Type)
	assert.True(t, buy.Trailing.StrikePrice.Equal(dec("10015")), buy.Trailing.StrikePrice.String())

	sell, err := NewTrailingStop(btc, wire.SideSell, dec("1"), dec("10000"), 3)
	require.NoError(t, err)
	assert.True(t, sell.Trailing.StrikePrice.Equal(dec("9985")))

	_, err = NewTrailingStop(btc, wire.SideSell, dec("1"), dec("10000"), 0)
	assert.ErrorIs(t, err, ErrInvalidLag)
}

func TestFilledHelpers(t *testing.T) {
	o, _ := NewMarket(btc, wire.SideBuy, dec("3"))
	assert.True(t, o.FilledPrice().IsZero())
	assert.True(t, o.FilledVolume().IsZero())

	o.addTrades([]Trade{
		{Price: dec("100"), Quantity: dec("1")},
		{Price: dec("110"), Quantity: dec("2")},
	})
	assert.True(t, o.FilledPrice().Equal(dec("105")))
	assert.True(t, o.FilledVolume().Equal(dec("3")))
	assert.True(t, o.FilledQuantity.Equal(dec("3")))
}

func TestFromStatusIDs(t *testing.T) {
	orig, cur := uuid.New(), uuid.New()
	o, err := FromStatus(eth, uuid.New(), &wire.OrderStatus{
		OrigClientID:  orig,
		OrderClientID: cur,
		Type:          wire.TypeMarket,
		Status:        wire.StatusAccepted,
		Quantity:      dec("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, orig, o.OrigClientID)
	assert.Equal(t, cur, o.ClientID)
	assert.Equal(t, KindMarket, o.Kind)
	assert.True(t, o.OpenTime.IsZero())
}

func TestCloneIsolatesTrades(t *testing.T) {
	o, _ := NewLimit(btc, wire.SideBuy, dec("1"), dec("1"))
	o.addTrades([]Trade{{Price: dec("1"), Quantity: dec("1")}})
	c := o.clone()
	o.addTrades([]Trade{{Price: dec("2"), Quantity: dec("1")}})
	assert.Len(t, c.Trades, 1)
	assert.Len(t, o.Trades, 2)
}

func TestStateMachine(t *testing.T) {
	sm := NewStateMachine()
	assert.NoError(t, sm.ValidateTransition(wire.StatusPending, wire.StatusAccepted))
	assert.NoError(t, sm.ValidateTransition(wire.StatusPartial, wire.StatusPartial))
	assert.NoError(t, sm.ValidateTransition(wire.StatusUndefined, wire.StatusFilled))
	assert.Error(t, sm.ValidateTransition(wire.StatusFilled, wire.StatusAccepted))
	assert.Contains(t, sm.AllowedTransitions(wire.StatusAccepted), wire.StatusCanceled)

	assert.True(t, IsFinalState(wire.StatusCanceled))
	assert.True(t, IsFinalState(wire.StatusExpired))
	assert.False(t, IsFinalState(wire.StatusPartial))
	assert.True(t, IsActiveState(wire.StatusPending))
	assert.Equal(t, "订单已撤销", GetStateDescription(wire.StatusCanceled))
}
