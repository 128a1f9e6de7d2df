package wire

// Side is the side of an order or position change.
type Side uint8

const (
	SideUndefined Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNDEFINED"
	}
}

// Opposite returns the other side; undefined stays undefined.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUndefined
	}
}

// OrderType as understood by the exchange. Trailing stops are client-side and
// go out as market orders.
type OrderType uint8

const (
	TypeUndefined OrderType = iota
	TypeLimit
	TypeMarket
)

func (t OrderType) String() string {
	switch t {
	case TypeLimit:
		return "LIMIT"
	case TypeMarket:
		return "MARKET"
	default:
		return "UNDEFINED"
	}
}

// Duration is the time in force.
type Duration uint8

const (
	DurationUndefined Duration = iota
	DurationGTC
	DurationGFD
	DurationIOC
	DurationFOK
)

func (d Duration) String() string {
	switch d {
	case DurationGTC:
		return "GTC"
	case DurationGFD:
		return "GFD"
	case DurationIOC:
		return "IOC"
	case DurationFOK:
		return "FOK"
	default:
		return "UNDEFINED"
	}
}

// Status is the lifecycle status reported by the exchange.
type Status uint8

const (
	StatusUndefined Status = iota
	StatusPending
	StatusAccepted
	StatusRejected
	StatusCanceled
	StatusFilled
	StatusPartial
	StatusTerminated
	StatusExpired
)

var statusNames = [...]string{
	StatusUndefined:  "UNDEFINED",
	StatusPending:    "PENDING",
	StatusAccepted:   "ACCEPTED",
	StatusRejected:   "REJECTED",
	StatusCanceled:   "CANCELED",
	StatusFilled:     "FILLED",
	StatusPartial:    "PARTIAL",
	StatusTerminated: "TERMINATED",
	StatusExpired:    "EXPIRED",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// PositionType is the direction of the trader's open position.
type PositionType uint8

const (
	PositionUndefined PositionType = iota
	PositionLong
	PositionShort
	PositionFlat
)

func (p PositionType) String() string {
	switch p {
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	case PositionFlat:
		return "FLAT"
	default:
		return "UNDEFINED"
	}
}
