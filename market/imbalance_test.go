package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"digitex-connector/wire"
)

func TestCalculateImbalance(t *testing.T) {
	tests := []struct {
		name      string
		bidVolume string
		askVolume string
		expected  string
	}{
		{name: "Equal volumes", bidVolume: "100", askVolume: "100", expected: "0"},
		{name: "More bid volume", bidVolume: "150", askVolume: "100", expected: "0.2"},
		{name: "More ask volume", bidVolume: "100", askVolume: "150", expected: "-0.2"},
		{name: "Zero volumes", bidVolume: "0", askVolume: "0", expected: "0"},
		{name: "One zero volume", bidVolume: "100", askVolume: "0", expected: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateImbalance(d(tt.bidVolume), d(tt.askVolume))
			if !result.Equal(d(tt.expected)) {
				t.Errorf("CalculateImbalance(%s, %s) = %s, want %s",
					tt.bidVolume, tt.askVolume, result, tt.expected)
			}
		})
	}
}

func TestOrderBookImbalance(t *testing.T) {
	book := NewOrderBook(btc)
	book.ApplySnapshot(&wire.OrderBook{
		Bids: levels("100", "2", "95", "3", "90", "1"),
		Asks: levels("105", "1", "110", "2", "115", "3"),
	}, time.Now())

	check := func(n int, bid, ask int64) {
		t.Helper()
		got := book.Imbalance(n)
		want := CalculateImbalance(decimal.NewFromInt(bid), decimal.NewFromInt(ask))
		if !got.Equal(want) {
			t.Errorf("Imbalance(%d) = %s, want %s", n, got, want)
		}
	}
	check(1, 2, 1)
	check(2, 2+3, 1+2)
	check(10, 2+3+1, 1+2+3)

	var nilBook *OrderBook
	if !nilBook.Imbalance(1).IsZero() {
		t.Error("nil book must yield 0")
	}
	if !book.Imbalance(0).IsZero() {
		t.Error("zero levels must yield 0")
	}
}
