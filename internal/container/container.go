package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"digitex-connector/config"
	"digitex-connector/gateway"
	"digitex-connector/infrastructure/alert"
	"digitex-connector/infrastructure/logger"
	"digitex-connector/infrastructure/monitor"
	"digitex-connector/market"
	"digitex-connector/trading"
)

const (
	configCooldown = 2 * time.Second
	alertThrottle  = time.Minute
)

// Container 依赖注入容器，管理所有组件的生命周期
type Container struct {
	cfg        config.AppConfig
	configPath string

	// 基础设施
	logger  *logger.Logger
	monitor *monitor.Monitor
	alerts  *alert.Manager

	// 交易所
	transport gateway.Transport
	conn      *gateway.Connection
	registry  *market.Registry
	agg       *trading.Aggregator

	lifecycle *LifecycleManager
}

// Option 调整容器的构建方式。
type Option func(*Container)

// WithTransport 替换默认的 WebSocket Transport。
func WithTransport(t gateway.Transport) Option {
	return func(c *Container) { c.transport = t }
}

// WithAlerts 使用外部创建的告警管理器。
func WithAlerts(m *alert.Manager) Option {
	return func(c *Container) { c.alerts = m }
}

// WithLogger 使用外部创建的日志器。
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// New 从配置文件创建容器，配置文件变化时热更新日志级别。
func New(configPath string, opts ...Option) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	c := FromConfig(cfg, opts...)
	c.configPath = configPath
	return c, nil
}

// FromConfig 用已加载的配置创建容器。
func FromConfig(cfg config.AppConfig, opts ...Option) *Container {
	c := &Container{cfg: cfg, lifecycle: NewLifecycleManager()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build 构建所有组件
func (c *Container) Build() error {
	if err := c.buildInfrastructure(); err != nil {
		return fmt.Errorf("build infrastructure failed: %w", err)
	}
	if err := c.buildConnector(); err != nil {
		return fmt.Errorf("build connector failed: %w", err)
	}
	if err := c.registerLifecycleComponents(); err != nil {
		return err
	}
	c.logger.Info("container built",
		zap.String("env", c.cfg.Env),
		zap.Int("symbols", c.registry.Len()))
	return nil
}

func (c *Container) buildInfrastructure() error {
	if c.logger == nil {
		l, err := logger.New(c.cfg.Log)
		if err != nil {
			return fmt.Errorf("create logger failed: %w", err)
		}
		c.logger = l
	}
	monitorCfg := monitor.DefaultConfig()
	if c.cfg.Metrics.Namespace != "" {
		monitorCfg.Namespace = c.cfg.Metrics.Namespace
	}
	c.monitor = monitor.New(monitorCfg)
	if c.alerts == nil {
		c.alerts = alert.NewManager([]alert.Channel{alert.NewLogChannel("log", c.logger.Named("alert"))}, alertThrottle)
	}
	return nil
}

func (c *Container) buildConnector() error {
	reg, err := market.LoadRegistry(c.cfg.SymbolsFile)
	if err != nil {
		return fmt.Errorf("load symbols failed: %w", err)
	}
	c.registry = reg

	log := c.logger.Logger
	if c.transport == nil {
		c.transport = gateway.NewWSTransport(c.cfg.WS(), log.Named("ws"), c.monitor)
	}
	c.conn = gateway.NewConnection(c.transport, log.Named("conn"), c.monitor)
	c.agg = trading.New(c.conn, reg, log.Named("trading"), c.monitor)
	watchConnector(c.alerts, c.agg, log)
	return nil
}

func (c *Container) registerLifecycleComponents() error {
	if c.cfg.Metrics.Addr != "" {
		c.lifecycle.Register(&httpServerComponent{
			name:    "metrics_server",
			handler: c.monitor.Handler(),
			addr:    c.cfg.Metrics.Addr,
			log:     c.logger.Logger,
		})
	}
	if c.configPath != "" {
		w, err := config.NewWatcher(c.configPath, configCooldown, c.logger.Named("config"))
		if err != nil {
			return fmt.Errorf("create config watcher failed: %w", err)
		}
		c.lifecycle.Register(&watcherComponent{watcher: w, apply: c.applyConfig})
	}
	c.lifecycle.Register(&connectorComponent{agg: c.agg, log: c.logger.Logger})
	return nil
}

// applyConfig 只热更新日志级别，其余字段需要重启。
func (c *Container) applyConfig(cfg config.AppConfig) {
	if cfg.Log.Level == "" {
		return
	}
	if err := c.logger.SetLevel(cfg.Log.Level); err != nil {
		c.logger.Warn("apply log level", zap.Error(err))
		return
	}
	c.logger.Info("log level updated", zap.String("level", cfg.Log.Level))
}

func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("starting container")
	if err := c.lifecycle.StartAll(ctx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	c.logger.Info("container started")
	return nil
}

// Stop 逆序停止组件：先撤单断开连接，再关闭监听与指标服务。
func (c *Container) Stop() error {
	c.logger.Info("stopping container")
	err := c.lifecycle.StopAll()
	if err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "stop"})
	}
	_ = c.logger.Close()
	return err
}

func (c *Container) HealthCheck() error {
	return c.lifecycle.CheckHealth()
}

func (c *Container) Config() config.AppConfig        { return c.cfg }
func (c *Container) Logger() *logger.Logger          { return c.logger }
func (c *Container) Monitor() *monitor.Monitor       { return c.monitor }
func (c *Container) Registry() *market.Registry      { return c.registry }
func (c *Container) Aggregator() *trading.Aggregator { return c.agg }
