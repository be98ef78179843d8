package model

import "github.com/shopspring/decimal"

// AdjustmentResult is the price change computed for one listing in one batch pass.
type AdjustmentResult struct {
	SourceOrder   MarketOrder
	OldPrice      int
	NewPrice      int
	Delta         int             // NewPrice - OldPrice
	PercentChange decimal.Decimal // (NewPrice - OldPrice) / OldPrice * 100
	Applied       bool
}

// NewAdjustmentResult builds an unapplied result moving order to newPrice.
func NewAdjustmentResult(order MarketOrder, newPrice int) AdjustmentResult {
	delta := newPrice - order.Price

	pct := decimal.Zero
	if order.Price != 0 {
		pct = decimal.NewFromInt(int64(delta)).
			Div(decimal.NewFromInt(int64(order.Price))).
			Mul(decimal.NewFromInt(100))
	}

	return AdjustmentResult{
		SourceOrder:   order,
		OldPrice:      order.Price,
		NewPrice:      newPrice,
		Delta:         delta,
		PercentChange: pct,
	}
}
