package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"digitex-connector/event"
	"digitex-connector/market"
	"digitex-connector/wire"
)

// Gateway 提供下单/撤单抽象，由 gateway.Connection 实现。
type Gateway interface {
	PlaceOrder(marketID uint32, id uuid.UUID, typ wire.OrderType, side wire.Side, dur wire.Duration, price, qty decimal.Decimal) bool
	CancelOrder(marketID uint32, requestID, prevClientID uuid.UUID) bool
	CancelAllOrders(marketID uint32, requestID uuid.UUID) bool
}

// Recorder 记录账本指标，可为 nil。
type Recorder interface {
	SetLedgerSize(n int)
	RecordOrderEvent(event string)
}

// StatusHandler 在订单状态变化时被调用，参数是订单快照。
type StatusHandler func(Order)

// ErrorHandler 在交易所返回与该订单关联的错误时被调用。
type ErrorHandler func(Order, wire.ErrorCode)

// Hooks 是下单时登记的单笔订单回调，订单移出账本后不再触发。
type Hooks struct {
	OnStatus StatusHandler
	OnError  ErrorHandler
}

type entry struct {
	order *Order
	hooks Hooks
}

type notice struct {
	order Order
	hooks Hooks
}

// Ledger 是以 OrigClientID 为键的活跃订单表。
// 变更通知在锁释放后发布，回调中可以安全地再次下单或撤单。
type Ledger struct {
	gw  Gateway
	log *zap.Logger
	rec Recorder
	sm  *StateMachine

	lock   upgradeLock
	orders map[uuid.UUID]*entry

	changes event.Feed[Order]
}

func NewLedger(gw Gateway, log *zap.Logger, rec Recorder) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		gw:     gw,
		log:    log,
		rec:    rec,
		sm:     NewStateMachine(),
		orders: make(map[uuid.UUID]*entry),
	}
}

// Changes 在任一订单字段被回报更新后发布该订单快照。
func (l *Ledger) Changes() *event.Feed[Order] { return &l.changes }

// Submit 先登记再发送；发送失败时同步移除，返回 false。
// 账本接管 o，调用方应使用返回的快照。
func (l *Ledger) Submit(o *Order, hooks Hooks) (Order, bool) {
	if o == nil || o.Quantity.IsNegative() {
		return Order{}, false
	}
	id := o.OrigClientID

	l.lock.Lock()
	if _, ok := l.orders[id]; ok {
		l.lock.Unlock()
		l.log.Warn("duplicate order id", zap.Stringer("id", id))
		return Order{}, false
	}
	l.orders[id] = &entry{order: o, hooks: hooks}
	snap := o.clone()
	n := len(l.orders)
	l.lock.Unlock()
	l.recordSize(n)

	if l.gw.PlaceOrder(o.Symbol.MarketID, snap.ClientID, snap.Type, snap.Side, snap.Duration, snap.Price, snap.Quantity) {
		l.recordEvent("placed")
		l.log.Debug("order placed", zap.Stringer("order", snap))
		return snap, true
	}

	l.lock.Lock()
	delete(l.orders, id)
	n = len(l.orders)
	l.lock.Unlock()
	l.recordSize(n)
	l.recordEvent("send_failed")
	l.log.Warn("place order not sent, rolled back", zap.Stringer("order", snap))
	return Order{}, false
}

// Cancel 按 OrigClientID 或当前 ClientID 撤单；订单不在账本中时返回 false。
func (l *Ledger) Cancel(id uuid.UUID) bool {
	l.lock.RLock()
	e := l.findLocked(id)
	var marketID uint32
	var clientID uuid.UUID
	if e != nil {
		marketID, clientID = e.order.Symbol.MarketID, e.order.ClientID
	}
	l.lock.RUnlock()
	if e == nil {
		return false
	}
	ok := l.gw.CancelOrder(marketID, uuid.New(), clientID)
	if ok {
		l.recordEvent("cancel_sent")
	}
	return ok
}

// CancelAll 撤销指定合约的全部订单。
func (l *Ledger) CancelAll(marketID uint32) bool {
	ok := l.gw.CancelAllOrders(marketID, uuid.New())
	if ok {
		l.recordEvent("cancel_all_sent")
	}
	return ok
}

// Get 返回订单快照。
func (l *Ledger) Get(id uuid.UUID) (Order, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	e := l.findLocked(id)
	if e == nil {
		return Order{}, false
	}
	return e.order.clone(), true
}

// GetOrders 返回全部活跃订单的快照。
func (l *Ledger) GetOrders() []Order {
	l.lock.RLock()
	defer l.lock.RUnlock()
	out := make([]Order, 0, len(l.orders))
	for _, e := range l.orders {
		out = append(out, e.order.clone())
	}
	return out
}

// GetOrdersByMarket 返回指定合约的活跃订单快照。
func (l *Ledger) GetOrdersByMarket(marketID uint32) []Order {
	l.lock.RLock()
	defer l.lock.RUnlock()
	out := make([]Order, 0)
	for _, e := range l.orders {
		if e.order.Symbol.MarketID == marketID {
			out = append(out, e.order.clone())
		}
	}
	return out
}

func (l *Ledger) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return len(l.orders)
}

// ApplyStatus 处理单笔订单状态回报。
func (l *Ledger) ApplyStatus(sym market.Symbol, clientID uuid.UUID, m *wire.OrderStatus) {
	id := firstID(m.OrigClientID, m.OrderClientID, clientID)
	g := l.lock.Upgradeable()
	e, ok := l.orders[id]
	if !ok {
		l.insertLocked(g, id, m.Status, func() (*Order, error) { return FromStatus(sym, clientID, m) })
		return
	}
	l.checkTransition(e.order, m.Status)

	g.Upgrade()
	o := e.order
	o.Timestamp = wire.Time(m.OrderTimestamp)
	o.Status = m.Status
	if !IsFinalState(m.Status) {
		o.OpenTime = wire.Time(m.OpenTime)
		o.OrigQuantity = m.OrigQuantity
		o.PaidPrice = m.PaidPrice
		o.AccumQuantity = m.Account.AccumQuantity
		if !m.Quantity.IsNegative() {
			o.Quantity = m.Quantity
		}
		o.OrderClientID = m.OrderClientID
		o.rename(m.OrderClientID)
	}
	n, removed := l.settleLocked(id, e)
	g.Release()
	l.afterSettle(n, removed)
}

// ApplyFilled 处理成交回报：部分成交原地更新，完全成交追加成交后移除。
func (l *Ledger) ApplyFilled(sym market.Symbol, m *wire.OrderFilled) {
	id := firstID(m.OrigClientID, m.NewClientID)
	g := l.lock.Upgradeable()
	e, ok := l.orders[id]
	if !ok {
		if m.Status != wire.StatusPartial {
			g.Release()
			return
		}
		l.insertLocked(g, id, m.Status, func() (*Order, error) { return FromFilled(sym, m) })
		return
	}
	if m.Status != wire.StatusPartial && m.Status != wire.StatusFilled {
		g.Release()
		l.log.Debug("ignore fill status", zap.Stringer("status", m.Status), zap.Stringer("id", id))
		return
	}
	l.checkTransition(e.order, m.Status)

	g.Upgrade()
	o := e.order
	if m.Status == wire.StatusPartial {
		o.PaidPrice = m.PaidPrice
		o.Type = m.Type
		o.Side = m.Side
		o.Leverage = m.Leverage
		o.Duration = m.Duration
		o.Price = m.Price
		if !m.Quantity.IsNegative() {
			o.Quantity = m.Quantity
		}
		o.OrigQuantity = m.OrigQuantity
		o.OpenTime = wire.Time(m.OpenTime)
		o.rename(m.NewClientID)
	}
	o.addTrades(TradesFromWire(sym, m.RawTrades))
	o.Status = m.Status
	n, removed := l.settleLocked(id, e)
	g.Release()
	l.afterSettle(n, removed)
}

// ApplyCanceled 处理撤单回报。撤单被拒绝时订单保持不变，由调用方另行通知。
func (l *Ledger) ApplyCanceled(m *wire.OrderCanceled) {
	if m.Status == wire.StatusRejected || !IsFinalState(m.Status) {
		return
	}
	ids := make([]uuid.UUID, 0, len(m.Orders)+1)
	for _, in := range m.Orders {
		ids = append(ids, firstID(in.OrigClientID, in.ClientID))
	}
	if len(ids) == 0 && m.PrevClientID != uuid.Nil {
		ids = append(ids, m.PrevClientID)
	}

	g := l.lock.Upgradeable()
	targets := make([]*entry, 0, len(ids))
	for _, id := range ids {
		if e := l.findLocked(id); e != nil {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		g.Release()
		return
	}
	g.Upgrade()
	notices := make([]notice, 0, len(targets))
	for _, e := range targets {
		if _, still := l.orders[e.order.OrigClientID]; !still {
			continue // 同一订单在列表中出现两次
		}
		e.order.Status = m.Status
		n, _ := l.settleLocked(e.order.OrigClientID, e)
		notices = append(notices, n)
	}
	g.Release()
	l.recordSize(l.Len())
	l.notify(notices...)
}

// UpdateOrders 合并订单列表（杠杆变更回报）：补充缺失订单并刷新杠杆。
func (l *Ledger) UpdateOrders(sym market.Symbol, infos []wire.OrderInfo) {
	if len(infos) == 0 {
		return
	}
	g := l.lock.Upgradeable()
	g.Upgrade()
	added := 0
	for _, in := range infos {
		id := firstID(in.OrigClientID, in.ClientID)
		if e, ok := l.orders[id]; ok {
			e.order.Leverage = in.Leverage
			continue
		}
		if IsFinalState(in.Status) {
			continue
		}
		o, err := FromInfo(sym, in)
		if err != nil {
			l.log.Warn("skip malformed order", zap.Stringer("id", id), zap.Error(err))
			continue
		}
		l.orders[id] = &entry{order: o}
		added++
	}
	n := len(l.orders)
	g.Release()
	if added > 0 {
		l.recordSize(n)
	}
}

// HandleError 把交易所错误路由到对应订单的错误回调；订单不在账本中时返回 false。
func (l *Ledger) HandleError(id uuid.UUID, code wire.ErrorCode) bool {
	if id == uuid.Nil {
		return false
	}
	g := l.lock.Upgradeable()
	e := l.findLocked(id)
	if e == nil {
		g.Release()
		return false
	}
	g.Upgrade()
	e.order.LastError = code
	snap, hooks := e.order.clone(), e.hooks
	g.Release()

	l.log.Warn("order error", zap.Stringer("order", snap), zap.Stringer("code", code))
	if hooks.OnError != nil {
		hooks.OnError(snap, code)
	}
	return true
}

// Close 移除全部订阅者。
func (l *Ledger) Close() { l.changes.Close() }

// findLocked 先按 OrigClientID 查找，再按当前 ClientID 扫描。
func (l *Ledger) findLocked(id uuid.UUID) *entry {
	if e, ok := l.orders[id]; ok {
		return e
	}
	for _, e := range l.orders {
		if e.order.ClientID == id {
			return e
		}
	}
	return nil
}

// insertLocked 在持有可升级锁时插入回报中发现的新订单，并释放锁。
// 终态订单与构造失败的订单被跳过。
func (l *Ledger) insertLocked(g *upgradeGuard, id uuid.UUID, st wire.Status, build func() (*Order, error)) {
	if IsFinalState(st) {
		g.Release()
		return
	}
	o, err := build()
	if err != nil {
		g.Release()
		l.log.Warn("skip malformed order event", zap.Stringer("id", id), zap.Error(err))
		return
	}
	g.Upgrade()
	l.orders[id] = &entry{order: o}
	snap := o.clone()
	n := len(l.orders)
	g.Release()
	l.recordSize(n)
	l.log.Debug("order discovered", zap.Stringer("order", snap))
}

// settleLocked 必须持有写锁：生成通知快照，终态订单从表中移除。
func (l *Ledger) settleLocked(id uuid.UUID, e *entry) (notice, bool) {
	n := notice{order: e.order.clone(), hooks: e.hooks}
	if IsFinalState(e.order.Status) {
		delete(l.orders, id)
		return n, true
	}
	return n, false
}

func (l *Ledger) afterSettle(n notice, removed bool) {
	if removed {
		l.recordSize(l.Len())
	}
	l.notify(n)
}

func (l *Ledger) notify(ns ...notice) {
	for _, n := range ns {
		l.recordEvent(strings.ToLower(n.order.Status.String()))
		if n.hooks.OnStatus != nil {
			n.hooks.OnStatus(n.order)
		}
		l.changes.Publish(n.order)
	}
}

func (l *Ledger) checkTransition(o *Order, to wire.Status) {
	if err := l.sm.ValidateTransition(o.Status, to); err != nil {
		l.log.Debug("unexpected transition", zap.Stringer("id", o.OrigClientID), zap.Error(err))
	}
}

func (l *Ledger) recordSize(n int) {
	if l.rec != nil {
		l.rec.SetLedgerSize(n)
	}
}

func (l *Ledger) recordEvent(ev string) {
	if l.rec != nil {
		l.rec.RecordOrderEvent(ev)
	}
}
