package market

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Level 是一档价格与数量。
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// ladder 以规范化价格字符串为键；数量为 0 的档位不会出现在表中。
type ladder map[string]Level

func priceKey(p decimal.Decimal) string { return p.String() }

// apply 数量为 0 删除该档，否则插入/覆盖。重复应用同一增量结果不变。
func (l ladder) apply(price, qty decimal.Decimal) {
	if qty.IsZero() {
		delete(l, priceKey(price))
		return
	}
	l[priceKey(price)] = Level{Price: price, Quantity: qty}
}

func (l ladder) min() (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, lv := range l {
		if !found || lv.Price.LessThan(best) {
			best, found = lv.Price, true
		}
	}
	return best, found
}

func (l ladder) max() (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, lv := range l {
		if !found || lv.Price.GreaterThan(best) {
			best, found = lv.Price, true
		}
	}
	return best, found
}

// sorted 返回按价格排序的档位，desc 为 true 时从高到低。
func (l ladder) sorted(desc bool) []Level {
	out := make([]Level, 0, len(l))
	for _, lv := range l {
		out = append(out, lv)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}
