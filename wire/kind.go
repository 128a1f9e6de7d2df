package wire

import "google.golang.org/protobuf/encoding/protowire"

// Kind tags the content carried by an envelope.
type Kind uint8

const (
	KindNone Kind = iota

	KindPlaceOrder
	KindCancelOrder
	KindCancelAllOrders
	KindGetTraderStatus
	KindOrderBookRequest
	KindGetMarketState
	KindChangeLeverageAll

	KindOrderStatus
	KindOrderFilled
	KindTraderStatus
	KindTraderBalance
	KindFunding
	KindOrderCanceled
	KindOrderBook
	KindOrderBookUpdated
	KindExchangeRate
	KindMarketState
	KindMarketStateUpdate
	KindLeverage

	kindCount
)

var kindNames = [...]string{
	KindNone:              "none",
	KindPlaceOrder:        "place_order",
	KindCancelOrder:       "cancel_order",
	KindCancelAllOrders:   "cancel_all_orders",
	KindGetTraderStatus:   "get_trader_status",
	KindOrderBookRequest:  "order_book_request",
	KindGetMarketState:    "get_market_state",
	KindChangeLeverageAll: "change_leverage_all",
	KindOrderStatus:       "order_status",
	KindOrderFilled:       "order_filled",
	KindTraderStatus:      "trader_status",
	KindTraderBalance:     "trader_balance",
	KindFunding:           "funding",
	KindOrderCanceled:     "order_canceled",
	KindOrderBook:         "order_book",
	KindOrderBookUpdated:  "order_book_updated",
	KindExchangeRate:      "exchange_rate",
	KindMarketState:       "market_state",
	KindMarketStateUpdate: "market_state_update",
	KindLeverage:          "leverage",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Outbound reports whether k is a command the client may send.
func (k Kind) Outbound() bool {
	return k >= KindPlaceOrder && k <= KindChangeLeverageAll
}

// contentBase is the envelope field number of the first content kind.
const contentBase protowire.Number = 10

func (k Kind) field() protowire.Number {
	return contentBase + protowire.Number(k-KindPlaceOrder)
}

func kindOf(n protowire.Number) Kind {
	if n < contentBase || n-contentBase >= protowire.Number(kindCount-KindPlaceOrder) {
		return KindNone
	}
	return Kind(n-contentBase) + KindPlaceOrder
}
