package market

import "github.com/shopspring/decimal"

// CalculateImbalance 计算买卖量失衡度：(买量 - 卖量) / (买量 + 卖量)。
func CalculateImbalance(bidVolume, askVolume decimal.Decimal) decimal.Decimal {
	total := bidVolume.Add(askVolume)
	if total.IsZero() {
		return decimal.Zero
	}
	return bidVolume.Sub(askVolume).Div(total)
}

// Imbalance 用盘口前 levels 档计算失衡度，levels <= 0 时返回 0。
func (ob *OrderBook) Imbalance(levels int) decimal.Decimal {
	if ob == nil || levels <= 0 {
		return decimal.Zero
	}
	return CalculateImbalance(sumTop(ob.Bids(), levels), sumTop(ob.Asks(), levels))
}

func sumTop(ls []Level, n int) decimal.Decimal {
	sum := decimal.Zero
	for i, l := range ls {
		if i >= n {
			break
		}
		sum = sum.Add(l.Quantity)
	}
	return sum
}
