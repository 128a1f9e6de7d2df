package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("wire: empty message")

// Envelope is the frame exchanged on both channels. ClientID is held in
// standard byte order; Marshal and Unmarshal convert it.
type Envelope struct {
	Serial    uint64
	MarketID  uint32
	TraderID  uint32
	ClientID  uuid.UUID
	Timestamp int64
	ErrorCode ErrorCode
	// Kind is the content tag seen on the wire. It stays KindNone for
	// content this package does not know, in which case Content is nil.
	Kind    Kind
	Content Content
}

// Now returns the envelope timestamp for the current instant, in
// microseconds since the Unix epoch.
func Now() int64 { return time.Now().UnixMicro() }

// Time converts a protocol timestamp to time.Time. Zero means absent and
// yields the zero time.
func Time(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

// BuildEnvelope wraps an outbound command. Serial is always zero.
func BuildEnvelope(content Content, marketID uint32, clientID uuid.UUID, traderID uint32) Envelope {
	k := content.Kind()
	if !k.Outbound() {
		panic(fmt.Sprintf("wire: %s is not an outbound message", k))
	}
	return Envelope{
		MarketID:  marketID,
		TraderID:  traderID,
		ClientID:  clientID,
		Timestamp: Now(),
		Kind:      k,
		Content:   content,
	}
}

// Marshal encodes the envelope.
func (env *Envelope) Marshal() ([]byte, error) {
	var e encoder
	e.uint(1, env.Serial)
	e.uint(2, uint64(env.MarketID))
	e.uint(3, uint64(env.TraderID))
	e.uuid(4, env.ClientID)
	e.sint(5, env.Timestamp)
	e.uint(6, uint64(env.ErrorCode))
	if env.Content != nil {
		e.message(env.Content.Kind().field(), env.Content.marshal)
	}
	if e.err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", e.err)
	}
	return e.buf, nil
}

// Unmarshal decodes an envelope. Unknown content kinds are skipped.
func Unmarshal(b []byte) (Envelope, error) {
	var env Envelope
	if len(b) == 0 {
		return env, ErrEmptyMessage
	}
	var d decoder
	err := walk(b, func(f field) {
		switch f.num {
		case 1:
			env.Serial = f.v
		case 2:
			env.MarketID = uint32(f.v)
		case 3:
			env.TraderID = uint32(f.v)
		case 4:
			env.ClientID = d.uuid(f)
		case 5:
			env.Timestamp = f.int64()
		case 6:
			env.ErrorCode = ErrorCode(f.v)
		default:
			k := kindOf(f.num)
			if k == KindNone {
				return
			}
			c := newContent(k)
			d.message(f, c.set)
			env.Kind, env.Content = k, c
		}
	})
	if err == nil {
		err = d.err
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func newContent(k Kind) Content {
	switch k {
	case KindPlaceOrder:
		return &PlaceOrder{}
	case KindCancelOrder:
		return &CancelOrder{}
	case KindCancelAllOrders:
		return &CancelAllOrders{}
	case KindGetTraderStatus:
		return &GetTraderStatus{}
	case KindOrderBookRequest:
		return &OrderBookRequest{}
	case KindGetMarketState:
		return &GetMarketState{}
	case KindChangeLeverageAll:
		return &ChangeLeverageAll{}
	case KindOrderStatus:
		return &OrderStatus{}
	case KindOrderFilled:
		return &OrderFilled{}
	case KindTraderStatus:
		return &TraderStatus{}
	case KindTraderBalance:
		return &TraderBalance{}
	case KindFunding:
		return &Funding{}
	case KindOrderCanceled:
		return &OrderCanceled{}
	case KindOrderBook:
		return &OrderBook{}
	case KindOrderBookUpdated:
		return &OrderBookUpdated{}
	case KindExchangeRate:
		return &ExchangeRate{}
	case KindMarketState:
		return &MarketState{}
	case KindMarketStateUpdate:
		return &MarketStateUpdate{}
	case KindLeverage:
		return &Leverage{}
	}
	panic(fmt.Sprintf("wire: no content type for kind %d", k))
}

// AccountOf returns the account fields of content kinds that carry them.
func AccountOf(c Content) (*Account, bool) {
	switch m := c.(type) {
	case *OrderStatus:
		return &m.Account, true
	case *OrderFilled:
		return &m.Account, true
	case *TraderStatus:
		return &m.Account, true
	case *Funding:
		return &m.Account, true
	case *OrderCanceled:
		return &m.Account, true
	case *Leverage:
		return &m.Account, true
	}
	return nil, false
}
