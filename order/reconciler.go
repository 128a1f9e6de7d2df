package order

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"digitex-connector/market"
	"digitex-connector/wire"
)

// Reconciler 用交易所的权威订单列表对账本做全量对账。
// 以交易所为准：补充本地缺失的订单，本地多出的订单标记为 Undefined 后移除。
type Reconciler struct {
	ledger *Ledger
	log    *zap.Logger

	mu sync.RWMutex

	// 统计信息
	totalReconciliations int64
	ordersAdded          int64
	ordersRemoved        int64
	conflictsResolved    int64
	lastReconcileTime    time.Time
}

func NewReconciler(ledger *Ledger, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{ledger: ledger, log: log}
}

// ResyncResult 描述一次对账的结果。
type ResyncResult struct {
	Added     int
	Removed   int
	Conflicts int
}

// Resync 对单个合约执行全量对账。对账完成后该合约在账本中的订单集合
// 恰好等于 remote 中的订单集合（构造失败或已终结的条目除外）。
func (r *Reconciler) Resync(sym market.Symbol, remote []wire.OrderInfo) ResyncResult {
	l := r.ledger
	remoteIDs := make(map[uuid.UUID]wire.OrderInfo, len(remote))
	for _, in := range remote {
		if IsFinalState(in.Status) {
			continue
		}
		remoteIDs[firstID(in.OrigClientID, in.ClientID)] = in
	}

	var res ResyncResult
	notices := make([]notice, 0)

	g := l.lock.Upgradeable()
	g.Upgrade()
	for id, in := range remoteIDs {
		e, ok := l.orders[id]
		if !ok {
			o, err := FromInfo(sym, in)
			if err != nil {
				r.log.Warn("skip malformed order in snapshot", zap.Stringer("id", id), zap.Error(err))
				continue
			}
			l.orders[id] = &entry{order: o}
			res.Added++
			continue
		}
		// 状态不一致时以交易所为准
		if in.Status != wire.StatusUndefined && e.order.Status != in.Status {
			e.order.Status = in.Status
			e.order.rename(in.ClientID)
			n, _ := l.settleLocked(id, e)
			notices = append(notices, n)
			res.Conflicts++
		}
	}
	for id, e := range l.orders {
		if e.order.Symbol.MarketID != sym.MarketID {
			continue
		}
		if _, ok := remoteIDs[id]; ok {
			continue
		}
		e.order.Status = wire.StatusUndefined
		notices = append(notices, notice{order: e.order.clone(), hooks: e.hooks})
		delete(l.orders, id)
		res.Removed++
	}
	size := len(l.orders)
	g.Release()

	if res.Added > 0 || res.Removed > 0 {
		l.recordSize(size)
	}
	l.notify(notices...)

	r.mu.Lock()
	r.totalReconciliations++
	r.ordersAdded += int64(res.Added)
	r.ordersRemoved += int64(res.Removed)
	r.conflictsResolved += int64(res.Conflicts)
	r.lastReconcileTime = time.Now()
	r.mu.Unlock()

	r.log.Info("orders resynced",
		zap.String("symbol", sym.Name),
		zap.Int("remote", len(remoteIDs)),
		zap.Int("added", res.Added),
		zap.Int("removed", res.Removed),
		zap.Int("conflicts", res.Conflicts))
	return res
}

// GetStatistics 获取对账统计信息
func (r *Reconciler) GetStatistics() ReconcilerStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return ReconcilerStats{
		TotalReconciliations: r.totalReconciliations,
		OrdersAdded:          r.ordersAdded,
		OrdersRemoved:        r.ordersRemoved,
		ConflictsResolved:    r.conflictsResolved,
		LastReconcileTime:    r.lastReconcileTime,
	}
}

// ReconcilerStats 对账统计信息
type ReconcilerStats struct {
	TotalReconciliations int64
	OrdersAdded          int64
	OrdersRemoved        int64
	ConflictsResolved    int64
	LastReconcileTime    time.Time
}
