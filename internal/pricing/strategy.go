package pricing

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/rickgao/market-pricer/internal/model"
)

// Strategy names.
const (
	StrategyMode = "mode"
	StrategyTier = "tier"
)

// ErrUnknownStrategy is returned by NewStrategy for an unrecognized name.
var ErrUnknownStrategy = errors.New("unknown pricing strategy")

// Options tune sampling.
type Options struct {
	SampleSize int     // Orders kept after sorting
	Disparity  float64 // Max relative distance from the mode
}

// DefaultOptions returns the standard sample size and disparity.
func DefaultOptions() Options {
	return Options{SampleSize: 10, Disparity: 0.10}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SampleSize <= 0 {
		o.SampleSize = d.SampleSize
	}
	if o.Disparity < 0 {
		o.Disparity = d.Disparity
	}
	return o
}

// Recommendation is a suggested price for one listing.
type Recommendation struct {
	Price          int
	ReferenceMode  int
	DisparityRatio float64
	SampleSize     int
	ReferenceOwner string // empty when no single order anchors the price

	Strategy    string
	Tier        Tier
	MarketPrice int // best comparable price: lowest sell or highest buy
}

// Strategy recommends a price for a listing on the given side of the book.
// It returns nil when nothing in orders is comparable.
type Strategy interface {
	Name() string
	Recommend(orders []model.MarketOrder, role model.OrderType, class Classification, own string) *Recommendation
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string, opts Options) (Strategy, error) {
	switch name {
	case "", StrategyMode:
		return ModeStrategy{Options: opts}, nil
	case StrategyTier:
		return TierStrategy{Options: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Sample filters orders to the comparable ones and returns the best
// sampleSize of them in priority order: cheapest first for sell, highest
// first for buy. Orders by own, offline owners and non-comparable ranks are
// dropped. The input is not modified.
func Sample(orders []model.MarketOrder, role model.OrderType, class Classification, own string, sampleSize int) []model.MarketOrder {
	out := make([]model.MarketOrder, 0, len(orders))
	for _, o := range orders {
		if own != "" && o.OwnerName == own {
			continue
		}
		if !o.OwnerOnline {
			continue
		}
		if !class.Comparable(o) {
			continue
		}
		out = append(out, o)
	}

	slices.SortStableFunc(out, func(a, b model.MarketOrder) int {
		if role == model.OrderBuy {
			return cmp.Compare(b.Price, a.Price)
		}
		return cmp.Compare(a.Price, b.Price)
	})

	if sampleSize > 0 && len(out) > sampleSize {
		out = out[:sampleSize]
	}
	return out
}
