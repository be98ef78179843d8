package pricing

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rickgao/market-pricer/internal/model"
)

// MarketStats describes the tradeable sell side of an item's book.
type MarketStats struct {
	OnlineSellers int
	LowestPrice   int
	Tier          Tier

	Median decimal.Decimal
	Mean   decimal.Decimal
	Min    int
	Max    int

	AverageGap decimal.Decimal // mean distance between consecutive prices
	PriceRange int

	BuyOrders  int // all buy orders in the book
	SellOrders int // all sell orders in the book
}

// Analyze summarizes the online, comparable sell orders of a book.
// Returns nil when there are none.
func Analyze(book model.OrderBook, class Classification) *MarketStats {
	var sellPrices []int
	for _, o := range book.Sell {
		if o.OwnerOnline && class.Comparable(o) {
			sellPrices = append(sellPrices, o.Price)
		}
	}
	if len(sellPrices) == 0 {
		return nil
	}
	slices.Sort(sellPrices)

	n := len(sellPrices)
	sum := 0
	for _, p := range sellPrices {
		sum += p
	}

	gap := decimal.Zero
	if n > 1 {
		// Consecutive gaps of a sorted slice telescope to max-min.
		gap = decimal.NewFromInt(int64(sellPrices[n-1] - sellPrices[0])).
			Div(decimal.NewFromInt(int64(n - 1)))
	}

	return &MarketStats{
		OnlineSellers: n,
		LowestPrice:   sellPrices[0],
		Tier:          ClassifyTier(sellPrices[0]),
		Median:        median(sellPrices),
		Mean:          decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(n))),
		Min:           sellPrices[0],
		Max:           sellPrices[n-1],
		AverageGap:    gap,
		PriceRange:    sellPrices[n-1] - sellPrices[0],
		BuyOrders:     len(book.Buy),
		SellOrders:    len(book.Sell),
	}
}

// median of a sorted, non-empty slice.
func median(sorted []int) decimal.Decimal {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return decimal.NewFromInt(int64(sorted[mid]))
	}
	return decimal.NewFromInt(int64(sorted[mid-1] + sorted[mid])).Div(decimal.NewFromInt(2))
}
