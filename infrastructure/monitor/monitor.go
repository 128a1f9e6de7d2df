package monitor

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor Prometheus监控指标收集器，实现 gateway.Metrics、market.Recorder 与 order.Recorder。
type Monitor struct {
	registry *prometheus.Registry

	// 订单指标
	ordersPlaced   prometheus.Counter
	ordersCanceled prometheus.Counter
	ordersFilled   prometheus.Counter
	ordersRejected prometheus.Counter
	trailingFired  prometheus.Counter
	orderEvents    *prometheus.CounterVec
	ledgerSize     prometheus.Gauge

	// 行情指标
	trackedBooks prometheus.Gauge

	// 连接指标
	wsConnections   *prometheus.CounterVec
	wsDisconnects   *prometheus.CounterVec
	channelUp       *prometheus.GaugeVec
	messages        *prometheus.CounterVec
	decodeErrors    prometheus.Counter
	exchangeErrors  *prometheus.CounterVec
	sends           *prometheus.CounterVec
	dispatchLatency prometheus.Histogram
}

// Config 监控配置
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "dgtx",
		Subsystem: "connector",
	}
}

// New 创建新的Monitor实例
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &Monitor{
		registry: reg,

		ordersPlaced:   counter("orders_placed_total", "已发出的下单请求总数"),
		ordersCanceled: counter("orders_canceled_total", "已撤销订单总数"),
		ordersFilled:   counter("orders_filled_total", "完全成交订单总数"),
		ordersRejected: counter("orders_rejected_total", "被拒绝订单总数"),
		trailingFired:  counter("trailing_stops_fired_total", "已触发的追踪止损总数"),
		orderEvents:    counterVec("order_events_total", "按事件分类的订单事件数", "event"),
		ledgerSize:     gauge("ledger_orders", "账本中的活跃订单数"),

		trackedBooks: gauge("tracked_books", "已订阅的订单簿数"),

		wsConnections: counterVec("ws_connections_total", "WebSocket 建连次数", "channel"),
		wsDisconnects: counterVec("ws_disconnects_total", "WebSocket 断开次数", "channel"),

		channelUp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "channel_up",
			Help:      "通道是否已连接（1/0）",
		}, []string{"channel"}),

		messages:       counterVec("messages_received_total", "按类型统计的入站消息数", "kind"),
		decodeErrors:   counter("decode_errors_total", "无法解码而丢弃的消息数"),
		exchangeErrors: counterVec("exchange_errors_total", "交易所返回的错误数", "code"),
		sends:          counterVec("messages_sent_total", "出站消息数", "kind", "result"),

		dispatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dispatch_latency_seconds",
			Help:      "入站消息解码与分发耗时（秒）",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}

// ===== gateway.Metrics =====

func (m *Monitor) RecordWSConnection(channel string) { m.wsConnections.WithLabelValues(channel).Inc() }
func (m *Monitor) RecordWSDisconnect(channel string) { m.wsDisconnects.WithLabelValues(channel).Inc() }

func (m *Monitor) SetChannelUp(channel string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.channelUp.WithLabelValues(channel).Set(v)
}

func (m *Monitor) RecordMessage(kind string)       { m.messages.WithLabelValues(kind).Inc() }
func (m *Monitor) RecordDecodeError()              { m.decodeErrors.Inc() }
func (m *Monitor) RecordExchangeError(code string) { m.exchangeErrors.WithLabelValues(code).Inc() }

func (m *Monitor) RecordSend(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.sends.WithLabelValues(kind, result).Inc()
}

func (m *Monitor) ObserveDispatch(seconds float64) { m.dispatchLatency.Observe(seconds) }

// ===== market.Recorder / order.Recorder =====

func (m *Monitor) SetTrackedBooks(n int) { m.trackedBooks.Set(float64(n)) }
func (m *Monitor) SetLedgerSize(n int)   { m.ledgerSize.Set(float64(n)) }

// RecordOrderEvent 统计订单事件；状态事件同时计入对应的汇总计数器。
func (m *Monitor) RecordOrderEvent(event string) {
	event = strings.ToLower(event)
	m.orderEvents.WithLabelValues(event).Inc()
	switch event {
	case "placed":
		m.ordersPlaced.Inc()
	case "canceled":
		m.ordersCanceled.Inc()
	case "filled":
		m.ordersFilled.Inc()
	case "rejected", "trailing_rejected":
		m.ordersRejected.Inc()
	case "trailing_fired":
		m.trailingFired.Inc()
	}
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层注册表
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}
