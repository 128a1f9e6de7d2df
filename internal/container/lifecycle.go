package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"digitex-connector/config"
	"digitex-connector/trading"
)

// Lifecycle 生命周期接口
type Lifecycle interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
	Health() error
}

// LifecycleManager 生命周期管理器
type LifecycleManager struct {
	components []Lifecycle
	mu         sync.RWMutex
}

// NewLifecycleManager 创建新的生命周期管理器
func NewLifecycleManager() *LifecycleManager {
	return &LifecycleManager{
		components: make([]Lifecycle, 0),
	}
}

// Register 注册组件
func (m *LifecycleManager) Register(component Lifecycle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component)
}

// StartAll 按顺序启动所有组件，失败时逆序回滚已启动的组件
func (m *LifecycleManager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, component := range m.components {
		if err := component.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = m.components[j].Stop()
			}
			return fmt.Errorf("start %s failed: %w", component.Name(), err)
		}
	}
	return nil
}

// StopAll 逆序停止所有组件，返回全部错误
func (m *LifecycleManager) StopAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []error
	for i := len(m.components) - 1; i >= 0; i-- {
		if err := m.components[i].Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", m.components[i].Name(), err))
		}
	}
	return errors.Join(errs...)
}

// CheckHealth 检查所有组件健康状态
func (m *LifecycleManager) CheckHealth() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, component := range m.components {
		if err := component.Health(); err != nil {
			return fmt.Errorf("%s unhealthy: %w", component.Name(), err)
		}
	}
	return nil
}

// httpServerComponent 指标 HTTP 服务
type httpServerComponent struct {
	name    string
	handler http.Handler
	addr    string
	log     *zap.Logger

	mu     sync.Mutex
	server *http.Server
}

func (h *httpServerComponent) Name() string { return h.name }

func (h *httpServerComponent) Start(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server != nil {
		return nil
	}
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	h.server = srv

	go func() {
		h.log.Info("http server listening", zap.String("component", h.name), zap.String("addr", h.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error("http server failed", zap.String("component", h.name), zap.Error(err))
		}
	}()
	return nil
}

func (h *httpServerComponent) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := h.server.Shutdown(ctx)
	h.server = nil
	if err != nil {
		return fmt.Errorf("%s shutdown failed: %w", h.name, err)
	}
	h.log.Info("http server stopped", zap.String("component", h.name))
	return nil
}

func (h *httpServerComponent) Health() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server == nil {
		return fmt.Errorf("%s not started", h.name)
	}
	return nil
}

// connectorComponent 负责连接交易所；停止时先撤销全部挂单再断开。
type connectorComponent struct {
	agg *trading.Aggregator
	log *zap.Logger
}

func (c *connectorComponent) Name() string { return "connector" }

func (c *connectorComponent) Start(ctx context.Context) error {
	return c.agg.Connect(ctx)
}

func (c *connectorComponent) Stop() error {
	if c.agg.IsConnected() {
		for _, sym := range c.agg.Registry().All() {
			if len(c.agg.GetOrdersBySymbol(sym)) == 0 {
				continue
			}
			if !c.agg.CancelAllOrders(sym) {
				c.log.Warn("cancel all on shutdown not sent", zap.String("symbol", sym.Name))
			}
		}
	}
	return c.agg.Close()
}

func (c *connectorComponent) Health() error {
	if !c.agg.IsConnected() {
		return errors.New("control channel down")
	}
	return nil
}

// watcherComponent 监听配置文件并热更新日志级别。
type watcherComponent struct {
	watcher *config.Watcher
	apply   func(config.AppConfig)
}

func (w *watcherComponent) Name() string { return "config_watcher" }

func (w *watcherComponent) Start(ctx context.Context) error {
	return w.watcher.Start(ctx, w.apply)
}

func (w *watcherComponent) Stop() error   { return w.watcher.Stop() }
func (w *watcherComponent) Health() error { return nil }
