package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"digitex-connector/market"
	"digitex-connector/wire"
)

// slackTicks 是重新定价的松弛倍数：价格朝有利方向偏离超过 slackTicks*lag 时重置触发价。
const slackTicks = 5

type condition struct {
	order *Order
	hooks Hooks
}

// TrailingEngine 维护尚未触发的追踪止损条件单。
// 锁顺序：先取本引擎的锁，再取账本的锁。
type TrailingEngine struct {
	ledger *Ledger
	log    *zap.Logger
	rec    Recorder

	lock  upgradeLock
	conds map[uuid.UUID]*condition
}

func NewTrailingEngine(ledger *Ledger, log *zap.Logger, rec Recorder) *TrailingEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrailingEngine{
		ledger: ledger,
		log:    log,
		rec:    rec,
		conds:  make(map[uuid.UUID]*condition),
	}
}

// Add 登记条件单；o 必须是追踪止损变体。
func (t *TrailingEngine) Add(o *Order, hooks Hooks) (Order, error) {
	if o == nil || o.Trailing == nil {
		return Order{}, ErrInvalidLag
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if _, ok := t.conds[o.OrigClientID]; ok {
		return Order{}, ErrDuplicateOrder
	}
	t.conds[o.OrigClientID] = &condition{order: o, hooks: hooks}
	t.log.Info("trailing stop armed", zap.Stringer("order", o.clone()),
		zap.Stringer("strike", o.Trailing.StrikePrice))
	return o.clone(), nil
}

// Cancel 撤销尚未触发的条件单，本地操作，不发送任何消息。
func (t *TrailingEngine) Cancel(id uuid.UUID) bool {
	g := t.lock.Upgradeable()
	if _, ok := t.conds[id]; !ok {
		g.Release()
		return false
	}
	g.Upgrade()
	delete(t.conds, id)
	g.Release()
	return true
}

// Get 返回条件单快照。
func (t *TrailingEngine) Get(id uuid.UUID) (Order, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	c, ok := t.conds[id]
	if !ok {
		return Order{}, false
	}
	return c.order.clone(), true
}

// Pending 返回指定合约尚未触发的条件单；marketID 为 0 时返回全部。
func (t *TrailingEngine) Pending(marketID uint32) []Order {
	t.lock.RLock()
	defer t.lock.RUnlock()
	out := make([]Order, 0, len(t.conds))
	for _, c := range t.conds {
		if marketID == 0 || c.order.Symbol.MarketID == marketID {
			out = append(out, c.order.clone())
		}
	}
	return out
}

func (t *TrailingEngine) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.conds)
}

type action uint8

const (
	actNone action = iota
	actRecenter
	actFire
)

// evaluate 判断条件单在当前调整价下的动作。
func evaluate(o *Order, spot decimal.Decimal) action {
	slack := decimal.NewFromInt(int64(slackTicks * o.Trailing.LagTicks))
	diff := o.Trailing.StrikePrice.Sub(spot)
	if o.Side == wire.SideSell {
		diff = spot.Sub(o.Trailing.StrikePrice)
	}
	switch {
	case diff.GreaterThan(slack):
		return actRecenter
	case !diff.IsPositive():
		return actFire
	default:
		return actNone
	}
}

// OnSpot 在调整后现货价变化时评估该合约的条件单。
// 每个条件单每次更新最多访问一次；触发的条件单在释放锁之前被移除，因此只会触发一次。
func (t *TrailingEngine) OnSpot(u market.SpotUpdate) {
	g := t.lock.Upgradeable()
	type step struct {
		id  uuid.UUID
		c   *condition
		act action
	}
	steps := make([]step, 0)
	for id, c := range t.conds {
		if c.order.Symbol.MarketID != u.Symbol.MarketID {
			continue
		}
		if a := evaluate(c.order, u.Adjusted); a != actNone {
			steps = append(steps, step{id: id, c: c, act: a})
		}
	}
	if len(steps) == 0 {
		g.Release()
		return
	}

	g.Upgrade()
	rejected := make([]notice, 0)
	for _, s := range steps {
		o := s.c.order
		if s.act == actRecenter {
			o.SetStrikePrice(u.Adjusted)
			t.log.Debug("trailing stop recentered", zap.Stringer("id", s.id),
				zap.Stringer("strike", o.Trailing.StrikePrice))
			continue
		}
		delete(t.conds, s.id)
		o.Price = decimal.Zero
		strike := o.Trailing.StrikePrice
		if _, ok := t.ledger.Submit(o, s.c.hooks); ok {
			t.recordEvent("trailing_fired")
			t.log.Info("trailing stop fired", zap.Stringer("id", s.id),
				zap.Stringer("spot", u.Adjusted), zap.Stringer("strike", strike))
			continue
		}
		// 发送失败：账本已回滚，条件单以 Rejected 结束
		o.Status = wire.StatusRejected
		rejected = append(rejected, notice{order: o.clone(), hooks: s.c.hooks})
		t.recordEvent("trailing_rejected")
	}
	g.Release()

	t.ledger.notify(rejected...)
}

// Close 丢弃全部条件单。
func (t *TrailingEngine) Close() {
	t.lock.Lock()
	t.conds = make(map[uuid.UUID]*condition)
	t.lock.Unlock()
}

func (t *TrailingEngine) recordEvent(ev string) {
	if t.rec != nil {
		t.rec.RecordOrderEvent(ev)
	}
}
