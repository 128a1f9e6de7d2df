package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TestnetHost = "ws.testnet.digitexfutures.com"
	MainnetHost = "ws.mainnet.digitexfutures.com"

	DefaultDataPath    = "/events/marketdata/"
	DefaultControlPath = "/events/order/"
)

var ErrAlreadyConnected = errors.New("transport already connected")

// WSConfig 描述两条 WebSocket 通道。
type WSConfig struct {
	Host             string
	Token            string
	Insecure         bool // ws:// 而不是 wss://，用于本地测试
	DataPath         string
	ControlPath      string
	HandshakeTimeout time.Duration
	RetryBackoff     time.Duration
	MaxRetries       int // 连续拨号失败上限，0 表示无限重试
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	SendRate         float64 // 每秒最多发送条数，0 表示不限
	SendBurst        int
}

func (c *WSConfig) applyDefaults() {
	if c.Host == "" {
		c.Host = TestnetHost
	}
	if c.DataPath == "" {
		c.DataPath = DefaultDataPath
	}
	if c.ControlPath == "" {
		c.ControlPath = DefaultControlPath
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 3 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = c.ReadTimeout / 2
	}
}

// WSTransport 管理行情与控制两条 WebSocket，含自动重连。
type WSTransport struct {
	cfg     WSConfig
	dialer  *websocket.Dialer
	log     *zap.Logger
	metrics Metrics
	limiter RateLimiter

	data    *socket
	control *socket

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type socket struct {
	name        string
	url         string
	header      http.Header
	up          Signal
	reconnected Signal
	down        Signal

	writeMu sync.Mutex
	conn    *websocket.Conn
	running atomic.Bool
	seen    bool // 是否曾经连接成功，只由运行 goroutine 访问
}

func NewWSTransport(cfg WSConfig, log *zap.Logger, m Metrics) *WSTransport {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = NopMetrics{}
	}
	scheme := "wss"
	if cfg.Insecure {
		scheme = "ws"
	}
	ctlHeader := http.Header{}
	if cfg.Token != "" {
		ctlHeader.Set("Authorization", "Token "+cfg.Token)
	}
	t := &WSTransport{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		log:     log,
		metrics: m,
		data: &socket{
			name:        "data",
			url:         (&url.URL{Scheme: scheme, Host: cfg.Host, Path: cfg.DataPath}).String(),
			header:      http.Header{},
			up:          DataConnected,
			reconnected: DataReconnected,
			down:        DataDisconnected,
		},
		control: &socket{
			name:        "control",
			url:         (&url.URL{Scheme: scheme, Host: cfg.Host, Path: cfg.ControlPath}).String(),
			header:      ctlHeader,
			up:          ControlConnected,
			reconnected: ControlReconnected,
			down:        ControlDisconnected,
		},
	}
	if cfg.SendRate > 0 {
		t.limiter = NewTokenBucketLimiter(cfg.SendRate, cfg.SendBurst)
	}
	return t
}

// Connect 启动两条通道的后台连接循环。
func (t *WSTransport) Connect(ctx context.Context, h Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return ErrAlreadyConnected
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	for _, s := range []*socket{t.data, t.control} {
		t.wg.Add(1)
		go func(s *socket) {
			defer t.wg.Done()
			t.run(ctx, s, h)
		}(s)
	}
	return nil
}

// Close 停止重连并关闭连接。
func (t *WSTransport) Close() error {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	for _, s := range []*socket{t.data, t.control} {
		s.writeMu.Lock()
		if s.conn != nil {
			_ = s.conn.Close()
		}
		s.writeMu.Unlock()
	}
	t.wg.Wait()
	return nil
}

func (t *WSTransport) IsDataConnected() bool    { return t.data.running.Load() }
func (t *WSTransport) IsControlConnected() bool { return t.control.running.Load() }

// Send 通过控制通道发送二进制帧。
func (t *WSTransport) Send(msg []byte) bool {
	s := t.control
	if !s.running.Load() {
		return false
	}
	if t.limiter != nil && !t.limiter.Allow() {
		t.log.Warn("send throttled", zap.Float64("rate", t.cfg.SendRate))
		return false
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil {
		return false
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(t.cfg.ReadTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		t.log.Warn("ws write failed", zap.String("channel", s.name), zap.Error(err))
		// 读循环会感知关闭并触发重连
		_ = s.conn.Close()
		return false
	}
	return true
}

// run 建立连接并在断开后自动重连，直到 ctx 结束。
func (t *WSTransport) run(ctx context.Context, s *socket, h Handler) {
	retries := 0
	for {
		if ctx.Err() != nil {
			return
		}
		conn, _, err := t.dialer.DialContext(ctx, s.url, s.header)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			retries++
			if t.cfg.MaxRetries > 0 && retries > t.cfg.MaxRetries {
				t.log.Error("ws reconnection gave up",
					zap.String("channel", s.name),
					zap.Int("retries", t.cfg.MaxRetries),
					zap.Error(err))
				return
			}
			backoff := time.Duration(retries) * t.cfg.RetryBackoff
			t.log.Warn("ws dial failed",
				zap.String("channel", s.name),
				zap.Int("attempt", retries),
				zap.Duration("retry_in", backoff),
				zap.Error(err))
			if !sleepCtx(ctx, backoff) {
				return
			}
			continue
		}
		retries = 0

		s.writeMu.Lock()
		s.conn = conn
		s.writeMu.Unlock()
		s.running.Store(true)
		t.metrics.RecordWSConnection(s.name)
		t.metrics.SetChannelUp(s.name, true)
		t.log.Info("ws connected", zap.String("channel", s.name), zap.String("url", s.url))
		if s.seen {
			h.OnSignal(s.reconnected)
		} else {
			s.seen = true
			h.OnSignal(s.up)
		}

		t.readLoop(ctx, s, conn, h)

		s.running.Store(false)
		s.writeMu.Lock()
		s.conn = nil
		s.writeMu.Unlock()
		t.metrics.RecordWSDisconnect(s.name)
		t.metrics.SetChannelUp(s.name, false)
		t.log.Warn("ws disconnected", zap.String("channel", s.name))
		h.OnSignal(s.down)

		if !sleepCtx(ctx, t.cfg.RetryBackoff) {
			return
		}
	}
}

// readLoop 读取消息并串行投递给 handler。
func (t *WSTransport) readLoop(ctx context.Context, s *socket, conn *websocket.Conn, h Handler) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(t.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-ticker.C:
				deadline := time.Now().Add(t.cfg.ReadTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					t.log.Debug("ws ping failed", zap.String("channel", s.name), zap.Error(err))
				}
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				t.log.Warn("ws read err", zap.String("channel", s.name), zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
		h.OnRawMessage(msg)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// URLs 返回行情与控制通道地址，便于日志与排查。
func (t *WSTransport) URLs() (data, control string) {
	return t.data.url, t.control.url
}
