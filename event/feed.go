// Package event 提供连接器中所有多播通知使用的订阅者列表。
package event

import "sync"

// Feed 是一个有序的同步事件分发器：订阅者按注册顺序被调用。
type Feed[T any] struct {
	mu   sync.RWMutex
	next uint64
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe 注册回调，返回的函数用于取消订阅（可重复调用）。
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	f.mu.Lock()
	f.next++
	id := f.next
	f.subs = append(f.subs, subscriber[T]{id: id, fn: fn})
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

// SubscribeChan 以带缓冲 channel 形式订阅；消费过慢时丢弃新事件。
func (f *Feed[T]) SubscribeChan(buffer int) (<-chan T, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan T, buffer)
	cancel := f.Subscribe(func(v T) {
		select {
		case ch <- v:
		default:
		}
	})
	return ch, cancel
}

// Publish 在锁外依次调用订阅者，回调中可以安全地订阅/取消订阅。
func (f *Feed[T]) Publish(v T) {
	f.mu.RLock()
	subs := f.subs
	f.mu.RUnlock()
	for _, s := range subs {
		s.fn(v)
	}
}

// Len 返回当前订阅者数量。
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Close 移除全部订阅者。
func (f *Feed[T]) Close() {
	f.mu.Lock()
	f.subs = nil
	f.mu.Unlock()
}

func (f *Feed[T]) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.id == id {
			// 写时复制：正在 Publish 的旧切片不受影响
			subs := make([]subscriber[T], 0, len(f.subs)-1)
			subs = append(subs, f.subs[:i]...)
			f.subs = append(subs, f.subs[i+1:]...)
			return
		}
	}
}
