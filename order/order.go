package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"digitex-connector/market"
	"digitex-connector/wire"
)

var (
	ErrNegativeQuantity = errors.New("negative order quantity")
	ErrInvalidLag       = errors.New("trailing lag must be positive")
	ErrUnknownOrder     = errors.New("unknown order")
	ErrDuplicateOrder   = errors.New("duplicate order id")
)

// Kind 区分订单变体。
type Kind uint8

const (
	KindLimit Kind = iota + 1
	KindMarket
	KindTrailingStop
)

func (k Kind) String() string {
	switch k {
	case KindLimit:
		return "limit"
	case KindMarket:
		return "market"
	case KindTrailingStop:
		return "trailing_stop"
	default:
		return "unknown"
	}
}

// Trailing 是追踪止损的变体字段。
type Trailing struct {
	LagTicks    int
	StrikePrice decimal.Decimal
}

// Order 是限价、市价与追踪止损订单的统一表示。
// OrigClientID 创建后不变，是账本主键；ClientID 是交易所当前认可的 id。
type Order struct {
	Kind          Kind
	ClientID      uuid.UUID
	OrigClientID  uuid.UUID
	OldClientID   uuid.UUID
	OrderClientID uuid.UUID
	Symbol        market.Symbol

	Type     wire.OrderType
	Side     wire.Side
	Duration wire.Duration
	Leverage uint32
	Status   wire.Status

	Price          decimal.Decimal
	PaidPrice      decimal.Decimal
	Quantity       decimal.Decimal
	OrigQuantity   decimal.Decimal
	AccumQuantity  decimal.Decimal
	FilledQuantity decimal.Decimal

	OpenTime      time.Time
	Timestamp     time.Time
	ContractID    uint64
	OldContractID uint64
	LastError     wire.ErrorCode

	Trades []Trade

	// 仅追踪止损非空
	Trailing *Trailing
}

func newLocal(kind Kind, typ wire.OrderType, sym market.Symbol, side wire.Side, qty, price decimal.Decimal) (*Order, error) {
	if qty.IsNegative() {
		return nil, fmt.Errorf("%s order %s: %w", kind, qty, ErrNegativeQuantity)
	}
	id := uuid.New()
	return &Order{
		Kind:         kind,
		ClientID:     id,
		OrigClientID: id,
		Symbol:       sym,
		Type:         typ,
		Side:         side,
		Duration:     wire.DurationGTC,
		Leverage:     1,
		Status:       wire.StatusPending,
		Price:        price,
		Quantity:     qty,
		OrigQuantity: qty,
		Timestamp:    time.Now(),
	}, nil
}

// NewLimit 创建本地限价单（状态 Pending）。
func NewLimit(sym market.Symbol, side wire.Side, qty, price decimal.Decimal) (*Order, error) {
	return newLocal(KindLimit, wire.TypeLimit, sym, side, qty, price)
}

// NewMarket 创建本地市价单（状态 Pending）。
func NewMarket(sym market.Symbol, side wire.Side, qty decimal.Decimal) (*Order, error) {
	return newLocal(KindMarket, wire.TypeMarket, sym, side, qty, decimal.Zero)
}

// NewTrailingStop 创建追踪止损条件单，触价前不会发送到交易所。
func NewTrailingStop(sym market.Symbol, side wire.Side, qty, adjustedSpot decimal.Decimal, lagTicks int) (*Order, error) {
	if lagTicks <= 0 {
		return nil, ErrInvalidLag
	}
	o, err := newLocal(KindTrailingStop, wire.TypeMarket, sym, side, qty, decimal.Zero)
	if err != nil {
		return nil, err
	}
	o.Trailing = &Trailing{LagTicks: lagTicks}
	o.SetStrikePrice(adjustedSpot)
	return o, nil
}

// SetStrikePrice 按调整后现货价重新计算触发价：买单在上方 lag 个 tick，卖单在下方。
func (o *Order) SetStrikePrice(adjustedSpot decimal.Decimal) {
	if o.Trailing == nil {
		return
	}
	offset := o.Symbol.PriceStep.Mul(decimal.NewFromInt(int64(o.Trailing.LagTicks)))
	if o.Side == wire.SideSell {
		offset = offset.Neg()
	}
	o.Trailing.StrikePrice = adjustedSpot.Add(offset)
}

func kindOf(t wire.OrderType) Kind {
	if t == wire.TypeMarket {
		return KindMarket
	}
	return KindLimit
}

func firstID(ids ...uuid.UUID) uuid.UUID {
	for _, id := range ids {
		if id != uuid.Nil {
			return id
		}
	}
	return uuid.Nil
}

// FromStatus 由订单状态消息构造订单；数量为负时返回错误且不构造。
func FromStatus(sym market.Symbol, clientID uuid.UUID, m *wire.OrderStatus) (*Order, error) {
	if m.Quantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}
	return &Order{
		Kind:          kindOf(m.Type),
		ClientID:      firstID(m.OrderClientID, clientID),
		OrigClientID:  firstID(m.OrigClientID, m.OrderClientID, clientID),
		OrderClientID: m.OrderClientID,
		Symbol:        sym,
		Type:          m.Type,
		Side:          m.Side,
		Duration:      m.Duration,
		Leverage:      m.Leverage,
		Status:        m.Status,
		Price:         m.Price,
		PaidPrice:     m.PaidPrice,
		Quantity:      m.Quantity,
		OrigQuantity:  m.OrigQuantity,
		AccumQuantity: m.Account.AccumQuantity,
		OpenTime:      wire.Time(m.OpenTime),
		Timestamp:     wire.Time(m.OrderTimestamp),
		OldContractID: m.OldContractID,
	}, nil
}

// FromFilled 由成交消息构造订单（本地未知的部分成交订单）。
func FromFilled(sym market.Symbol, m *wire.OrderFilled) (*Order, error) {
	if m.Quantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}
	o := &Order{
		Kind:         kindOf(m.Type),
		ClientID:     firstID(m.NewClientID, m.OrigClientID),
		OrigClientID: firstID(m.OrigClientID, m.NewClientID),
		Symbol:       sym,
		Type:         m.Type,
		Side:         m.Side,
		Duration:     m.Duration,
		Leverage:     m.Leverage,
		Status:       m.Status,
		Price:        m.Price,
		PaidPrice:    m.PaidPrice,
		Quantity:     m.Quantity,
		OrigQuantity: m.OrigQuantity,
		OpenTime:     wire.Time(m.OpenTime),
	}
	o.addTrades(TradesFromWire(sym, m.RawTrades))
	return o, nil
}

// FromInfo 由订单列表条目（TraderStatus / Leverage / OrderCanceled）构造订单。
func FromInfo(sym market.Symbol, in wire.OrderInfo) (*Order, error) {
	if in.Quantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}
	return &Order{
		Kind:           kindOf(in.Type),
		ClientID:       firstID(in.ClientID, in.OrigClientID),
		OrigClientID:   firstID(in.OrigClientID, in.ClientID),
		OldClientID:    in.OldClientID,
		Symbol:         sym,
		Type:           in.Type,
		Side:           in.Side,
		Duration:       in.Duration,
		Leverage:       in.Leverage,
		Status:         in.Status,
		Price:          in.Price,
		PaidPrice:      in.PaidPrice,
		Quantity:       in.Quantity,
		OrigQuantity:   in.OrigQuantity,
		FilledQuantity: in.FilledQuantity,
		OpenTime:       wire.Time(in.OpenTime),
		Timestamp:      wire.Time(in.Timestamp),
		ContractID:     in.ContractID,
		OldContractID:  in.OldContractID,
	}, nil
}

// rename 记录交易所分配的新 id。
func (o *Order) rename(id uuid.UUID) {
	if id == uuid.Nil || id == o.ClientID {
		return
	}
	o.OldClientID = o.ClientID
	o.ClientID = id
}

func (o *Order) addTrades(ts []Trade) {
	for _, t := range ts {
		o.Trades = append(o.Trades, t)
		o.FilledQuantity = o.FilledQuantity.Add(t.Quantity)
	}
}

// FilledPrice 返回所附成交价格的平均值，没有成交时为 0。
func (o Order) FilledPrice() decimal.Decimal {
	if len(o.Trades) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, t := range o.Trades {
		sum = sum.Add(t.Price)
	}
	return sum.Div(decimal.NewFromInt(int64(len(o.Trades))))
}

// FilledVolume 返回所附成交数量之和。
func (o Order) FilledVolume() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range o.Trades {
		sum = sum.Add(t.Quantity)
	}
	return sum
}

func (o Order) IsTrailingStop() bool { return o.Kind == KindTrailingStop }

// clone 返回不与账本共享切片/指针的副本。
func (o *Order) clone() Order {
	c := *o
	if o.Trades != nil {
		c.Trades = append([]Trade(nil), o.Trades...)
	}
	if o.Trailing != nil {
		t := *o.Trailing
		c.Trailing = &t
	}
	return c
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %s %s@%s [%s] %s",
		o.Symbol.Name, o.Kind, o.Side, o.Quantity, o.Price, o.Status, o.ClientID)
}
