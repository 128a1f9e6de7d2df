package container

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"digitex-connector/config"
	"digitex-connector/gateway"
	"digitex-connector/gateway/gatewaytest"
	"digitex-connector/infrastructure/alert"
	"digitex-connector/infrastructure/logger"
	"digitex-connector/order"
	"digitex-connector/wire"
)

const symbolsYAML = `
symbols:
  - marketId: 1
    name: BTCUSD-PERP
    priceStep: "5"
    quantityStep: "1"
    currencyPairId: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietConfig(symbolsFile string) config.AppConfig {
	return config.AppConfig{
		Env:         config.EnvTestnet,
		SymbolsFile: symbolsFile,
		Log:         logger.Config{Level: "info"},
	}
}

func TestContainerLifecycle(t *testing.T) {
	dir := t.TempDir()
	lb := gatewaytest.New()
	c := FromConfig(quietConfig(writeFile(t, dir, "symbols.yaml", symbolsYAML)), WithTransport(lb))
	require.NoError(t, c.Build())
	require.Equal(t, 1, c.Registry().Len())

	assert.Error(t, c.HealthCheck())
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.HealthCheck())

	sym, ok := c.Registry().ByName("BTCUSD-PERP")
	require.True(t, ok)
	_, ok = c.Aggregator().PlaceLimit(sym, wire.SideBuy, decimal.RequireFromString("1"), decimal.RequireFromString("10000"), order.Hooks{})
	require.True(t, ok)
	lb.Reset()

	require.NoError(t, c.Stop())
	assert.Equal(t, []wire.Kind{wire.KindCancelAllOrders}, lb.SentKinds())
}

func TestContainerStopWithoutOrdersSendsNothing(t *testing.T) {
	lb := gatewaytest.New()
	c := FromConfig(quietConfig(""), WithTransport(lb))
	require.NoError(t, c.Build())
	require.NoError(t, c.Start(context.Background()))
	lb.Reset()
	require.NoError(t, c.Stop())
	assert.Empty(t, lb.SentKinds())
}

func TestContainerReloadsLogLevel(t *testing.T) {
	dir := t.TempDir()
	symbols := writeFile(t, dir, "symbols.yaml", symbolsYAML)
	base := "env: testnet\nsymbolsFile: " + symbols + "\nlog:\n  level: info\n  outputs: []\n"
	path := writeFile(t, dir, "config.yaml", base)

	c, err := New(path, WithTransport(gatewaytest.New()))
	require.NoError(t, err)
	require.NoError(t, c.Build())
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(base, "level: info", "level: debug", 1)), 0o644))
	assert.Eventually(t, func() bool {
		return c.Logger().Level() == zapcore.DebugLevel
	}, 3*time.Second, 20*time.Millisecond)
}

type captureChannel struct{ alerts []alert.Alert }

func (c *captureChannel) Name() string { return "capture" }

func (c *captureChannel) Send(a alert.Alert) error {
	c.alerts = append(c.alerts, a)
	return nil
}

func TestContainerAlertsOnDisconnectAndErrors(t *testing.T) {
	lb := gatewaytest.New()
	ch := &captureChannel{}
	c := FromConfig(quietConfig(""), WithTransport(lb), WithAlerts(alert.NewManager([]alert.Channel{ch}, time.Minute)))
	require.NoError(t, c.Build())
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	lb.Signal(gateway.ControlDisconnected)
	require.NoError(t, lb.Inject(wire.Envelope{MarketID: 1, ErrorCode: wire.CodeInvalidPrice, Content: &wire.OrderStatus{Status: wire.StatusRejected}}))

	require.Len(t, ch.alerts, 2)
	assert.Equal(t, alert.LevelWarning, ch.alerts[0].Level)
	assert.Equal(t, "channel disconnected", ch.alerts[0].Message)
	assert.Equal(t, alert.LevelError, ch.alerts[1].Level)
	assert.Contains(t, ch.alerts[1].Message, "exchange error")
}

func TestStartAllRollsBack(t *testing.T) {
	m := NewLifecycleManager()
	first := &fakeComponent{name: "first"}
	m.Register(first)
	m.Register(&fakeComponent{name: "second", startErr: assert.AnError})

	err := m.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	assert.True(t, first.stopped)
}

type fakeComponent struct {
	name     string
	startErr error
	stopped  bool
}

func (f *fakeComponent) Name() string                    { return f.name }
func (f *fakeComponent) Start(ctx context.Context) error { return f.startErr }
func (f *fakeComponent) Health() error                   { return nil }

func (f *fakeComponent) Stop() error {
	f.stopped = true
	return nil
}

var _ gateway.Transport = (*gatewaytest.Loopback)(nil)
