package pricing

import (
	"github.com/rickgao/market-pricer/internal/model"
)

// Tier is a coarse price bracket.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// Tier lower bounds.
const (
	MidTierMin  = 55
	HighTierMin = 150
)

// markups are added to the market price, per tier and side.
var markups = map[Tier]map[model.OrderType]int{
	TierLow:  {model.OrderBuy: -15, model.OrderSell: -1},
	TierMid:  {model.OrderBuy: -20, model.OrderSell: -2},
	TierHigh: {model.OrderBuy: -30, model.OrderSell: -5},
}

// ClassifyTier buckets a price: below 55 is low, 55 to 149 is mid, 150 and
// above is high.
func ClassifyTier(price int) Tier {
	switch {
	case price < MidTierMin:
		return TierLow
	case price < HighTierMin:
		return TierMid
	default:
		return TierHigh
	}
}

// Markup returns the fixed adjustment for a tier and side.
func Markup(t Tier, role model.OrderType) int {
	return markups[t][role]
}

// TierStrategy prices at the best comparable price plus a fixed per-tier markup.
type TierStrategy struct {
	Options Options
}

// Name returns "tier".
func (TierStrategy) Name() string { return StrategyTier }

// Recommend implements Strategy.
func (s TierStrategy) Recommend(orders []model.MarketOrder, role model.OrderType, class Classification, own string) *Recommendation {
	opts := s.Options.withDefaults()

	sample := Sample(orders, role, class, own, opts.SampleSize)
	if len(sample) == 0 {
		return nil
	}

	market := sample[0].Price
	tier := ClassifyTier(market)

	return &Recommendation{
		Price:          market + Markup(tier, role),
		ReferenceMode:  Mode(prices(sample)),
		SampleSize:     len(sample),
		ReferenceOwner: sample[0].OwnerName,
		Strategy:       StrategyTier,
		Tier:           tier,
		MarketPrice:    market,
	}
}

func prices(orders []model.MarketOrder) []int {
	out := make([]int, len(orders))
	for i, o := range orders {
		out[i] = o.Price
	}
	return out
}
