package alert

import (
	"fmt"
	"sync"
	"time"
)

// Level 告警级别
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	}
	return fmt.Sprintf("LEVEL(%d)", uint8(l))
}

// Alert 告警信息
type Alert struct {
	Level     Level
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// Channel 告警通道接口
type Channel interface {
	Send(alert Alert) error
	Name() string
}

// Throttler 按 key 限流，同一 key 在 interval 内只放行一次。
type Throttler struct {
	lastSent map[string]time.Time
	interval time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// NewThrottler 创建限流器
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{
		lastSent: make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// Allow 检查是否允许发送
func (t *Throttler) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	last, ok := t.lastSent[key]
	if !ok || now.Sub(last) >= t.interval {
		t.lastSent[key] = now
		return true
	}
	return false
}

// Clear 清空所有限流记录
func (t *Throttler) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSent = make(map[string]time.Time)
}

// Manager 告警管理器
type Manager struct {
	channels []Channel
	throttle *Throttler
	mu       sync.RWMutex
}

// NewManager 创建告警管理器
func NewManager(channels []Channel, throttleInterval time.Duration) *Manager {
	return &Manager{
		channels: channels,
		throttle: NewThrottler(throttleInterval),
	}
}

// SendAlert 发送到全部通道；被限流时静默丢弃。只有全部通道失败才返回错误。
func (m *Manager) SendAlert(alert Alert) error {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}
	if !m.throttle.Allow(fmt.Sprintf("%s:%s", alert.Level, alert.Message)) {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var lastErr error
	sent := 0
	for _, ch := range m.channels {
		if err := ch.Send(alert); err != nil {
			lastErr = fmt.Errorf("channel %s failed: %w", ch.Name(), err)
			continue
		}
		sent++
	}
	if sent == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

func (m *Manager) SendInfo(message string, fields map[string]interface{}) error {
	return m.SendAlert(Alert{Level: LevelInfo, Message: message, Fields: fields})
}

func (m *Manager) SendWarning(message string, fields map[string]interface{}) error {
	return m.SendAlert(Alert{Level: LevelWarning, Message: message, Fields: fields})
}

func (m *Manager) SendError(message string, fields map[string]interface{}) error {
	return m.SendAlert(Alert{Level: LevelError, Message: message, Fields: fields})
}

func (m *Manager) SendCritical(message string, fields map[string]interface{}) error {
	return m.SendAlert(Alert{Level: LevelCritical, Message: message, Fields: fields})
}

// AddChannel 添加告警通道
func (m *Manager) AddChannel(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, ch)
}

// GetChannels 获取所有通道名
func (m *Manager) GetChannels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.channels))
	for _, ch := range m.channels {
		names = append(names, ch.Name())
	}
	return names
}

// ResetThrottle 重置限流器
func (m *Manager) ResetThrottle() {
	m.throttle.Clear()
}
