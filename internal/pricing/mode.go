package pricing

import (
	"math"

	"github.com/rickgao/market-pricer/internal/model"
)

// ModeStrategy anchors on the most common price in the sample.
type ModeStrategy struct {
	Options Options
}

// Name returns "mode".
func (ModeStrategy) Name() string { return StrategyMode }

// Recommend implements Strategy.
func (s ModeStrategy) Recommend(orders []model.MarketOrder, role model.OrderType, class Classification, own string) *Recommendation {
	return ComputeRecommendation(orders, role, class, own, s.Options)
}

// ComputeRecommendation picks the first sampled price that sits within
// opts.Disparity of the sample's mode and is backed by at least one other
// sampled order in that band. A lone in-band price is not trusted; the mode
// itself is returned with no reference owner instead.
//
// Returns nil iff no order is comparable.
func ComputeRecommendation(orders []model.MarketOrder, role model.OrderType, class Classification, own string, opts Options) *Recommendation {
	opts = opts.withDefaults()

	sample := Sample(orders, role, class, own, opts.SampleSize)
	if len(sample) == 0 {
		return nil
	}

	m := Mode(prices(sample))

	inBand := 0
	for _, o := range sample {
		if Disparity(o.Price, m) <= opts.Disparity {
			inBand++
		}
	}

	rec := &Recommendation{
		ReferenceMode: m,
		Strategy:      StrategyMode,
		MarketPrice:   sample[0].Price,
		Tier:          ClassifyTier(sample[0].Price),
	}

	if inBand > 1 {
		for i, o := range sample {
			ratio := Disparity(o.Price, m)
			if ratio <= opts.Disparity {
				rec.Price = o.Price
				rec.DisparityRatio = ratio
				rec.SampleSize = i + 1
				rec.ReferenceOwner = o.OwnerName
				return rec
			}
		}
	}

	rec.Price = m
	rec.DisparityRatio = 0
	rec.SampleSize = len(sample)
	return rec
}

// Mode returns the most frequent value. Ties go to the value that appears
// first. Mode of an empty slice is 0.
func Mode(values []int) int {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := 0, 0
	for _, v := range values {
		if c := counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}

// Disparity is |price-ref|/ref. With a zero reference only a zero price is
// at distance 0; anything else is infinitely far.
func Disparity(price, ref int) float64 {
	if ref == 0 {
		if price == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(float64(price-ref)) / math.Abs(float64(ref))
}
