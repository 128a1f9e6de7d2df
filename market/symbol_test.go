package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundToTick(t *testing.T) {
	sym := Symbol{PriceStep: d("0.5")}
	cases := []struct{ in, want string }{
		{"100", "100"},
		{"100.24", "100"},
		{"100.25", "100.5"}, // 恰好一半向上
		{"100.74", "100.5"},
		{"100.75", "101"},
	}
	for _, c := range cases {
		got := sym.RoundToTick(d(c.in))
		assert.Truef(t, got.Equal(d(c.want)), "RoundToTick(%s) = %s, want %s", c.in, got, c.want)
	}
	// 未配置步长时原样返回
	assert.True(t, Symbol{}.RoundToTick(d("1.23")).Equal(d("1.23")))
}

func TestSymbolEqual(t *testing.T) {
	a := Symbol{MarketID: 1, Name: "BTCUSD-PERP", PriceStep: d("5"), QuantityStep: d("1"), CurrencyPairID: 1}
	b := a
	b.PriceStep = d("5.0")
	assert.True(t, a.Equal(b))
	b.MarketID = 2
	assert.False(t, a.Equal(b))
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.yaml")
	raw := `symbols:
  - marketId: 1
    name: BTCUSD-PERP
    priceStep: "5"
    quantityStep: "1"
    currencyPairId: 1
  - marketId: 2
    name: ETHUSD-PERP
    priceStep: "0.25"
    quantityStep: "1"
    currencyPairId: 2
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	eth, ok := reg.ByName("ETHUSD-PERP")
	require.True(t, ok)
	assert.Equal(t, uint32(2), eth.MarketID)
	assert.True(t, eth.PriceStep.Equal(d("0.25")))

	byID, ok := reg.ByMarketID(1)
	require.True(t, ok)
	assert.Equal(t, "BTCUSD-PERP", byID.Name)

	_, ok = reg.ByName("XRPUSD-PERP")
	assert.False(t, ok)
}

func TestLoadRegistryMissingFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestLoadRegistryRejectsBadStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	raw := `symbols:
  - marketId: 1
    name: BTCUSD-PERP
    priceStep: "0"
    quantityStep: "1"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	_, err := LoadRegistry(path)
	assert.Error(t, err)
}
