package order

import "sync"

// upgradeLock 是可升级的读写锁：
//   - 纯读者使用 RLock，彼此不阻塞，也不被可升级持有者阻塞；
//   - 同一时刻最多一个可升级持有者，它可在不释放独占权的情况下升级为写锁；
//   - 写者先获取升级权再获取写锁，因此写者之间以及与可升级持有者之间互斥。
type upgradeLock struct {
	upgrader sync.Mutex
	rw       sync.RWMutex
}

func (l *upgradeLock) RLock()   { l.rw.RLock() }
func (l *upgradeLock) RUnlock() { l.rw.RUnlock() }

func (l *upgradeLock) Lock() {
	l.upgrader.Lock()
	l.rw.Lock()
}

func (l *upgradeLock) Unlock() {
	l.rw.Unlock()
	l.upgrader.Unlock()
}

// Upgradeable 以共享方式进入，并独占升级权。必须调用 Release。
func (l *upgradeLock) Upgradeable() *upgradeGuard {
	l.upgrader.Lock()
	l.rw.RLock()
	return &upgradeGuard{l: l}
}

type upgradeGuard struct {
	l        *upgradeLock
	upgraded bool
}

// Upgrade 把共享锁升级为写锁；重复调用无副作用。
// 释放读锁与获取写锁之间只可能有纯读者进入，因此检查的结果依然有效。
func (g *upgradeGuard) Upgrade() {
	if g.upgraded {
		return
	}
	g.l.rw.RUnlock()
	g.l.rw.Lock()
	g.upgraded = true
}

func (g *upgradeGuard) Release() {
	if g.upgraded {
		g.l.rw.Unlock()
	} else {
		g.l.rw.RUnlock()
	}
	g.l.upgrader.Unlock()
}
