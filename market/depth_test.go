package market

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLadderApplyIdempotent(t *testing.T) {
	l := make(ladder)
	l.apply(d("100"), d("5"))
	l.apply(d("100"), d("5"))
	if len(l) != 1 || !l["100"].Quantity.Equal(d("5")) {
		t.Fatalf("unexpected ladder after repeated delta: %+v", l)
	}
	// 删除不存在的档位为空操作
	l.apply(d("99"), decimal.Zero)
	if len(l) != 1 {
		t.Fatalf("removing absent level changed ladder: %+v", l)
	}
	l.apply(d("100"), decimal.Zero)
	if len(l) != 0 {
		t.Fatalf("zero quantity must remove level: %+v", l)
	}
}

func TestLadderKeyIgnoresTrailingZeros(t *testing.T) {
	l := make(ladder)
	l.apply(d("100.50"), d("1"))
	l.apply(d("100.5"), d("2"))
	if len(l) != 1 {
		t.Fatalf("expected one level, got %d", len(l))
	}
}

func TestLadderSortedAndExtremes(t *testing.T) {
	l := make(ladder)
	if _, ok := l.min(); ok {
		t.Fatal("empty ladder must have no min")
	}
	for _, p := range []string{"101", "99.5", "100"} {
		l.apply(d(p), d("1"))
	}
	lo, _ := l.min()
	hi, _ := l.max()
	if !lo.Equal(d("99.5")) || !hi.Equal(d("101")) {
		t.Fatalf("min/max = %s/%s", lo, hi)
	}
	desc := l.sorted(true)
	if !desc[0].Price.Equal(d("101")) || !desc[2].Price.Equal(d("99.5")) {
		t.Fatalf("unexpected desc order %+v", desc)
	}
}
