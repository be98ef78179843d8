package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/market-pricer/internal/model"
)

func rank(r int) *int { return &r }

// sells builds online sell orders owned by seller0, seller1, ...
func sells(prices ...int) []model.MarketOrder {
	out := make([]model.MarketOrder, len(prices))
	for i, p := range prices {
		out[i] = model.MarketOrder{
			ID:          "o" + string(rune('a'+i)),
			Price:       p,
			Type:        model.OrderSell,
			OwnerName:   "seller" + string(rune('0'+i)),
			OwnerOnline: true,
		}
	}
	return out
}

var regular = Classification{Variant: VariantRegular}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		want Classification
	}{
		{"mod", model.Item{Key: "serration", Tags: []string{"mod", "rifle"}, ModMaxRank: 10}, Classification{VariantMod, 10}},
		{"arcane", model.Item{Key: "arcane_energize", Tags: []string{"arcane"}}, Classification{VariantArcane, 5}},
		{"legacy arcane", model.Item{Key: "arcane_aegis", Tags: []string{"arcane"}}, Classification{VariantArcane, 3}},
		{"legacy arcane null strike", model.Item{Key: "arcane_null_strike", Tags: []string{"arcane"}}, Classification{VariantArcane, 3}},
		{"regular", model.Item{Key: "ember_prime_set", Tags: []string{"prime", "set"}}, Classification{VariantRegular, 0}},
		{"empty tags", model.Item{Key: "x", Tags: []string{}}, Classification{VariantRegular, 0}},
		{"mod wins over arcane", model.Item{Key: "x", Tags: []string{"arcane", "mod"}, ModMaxRank: 3}, Classification{VariantMod, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.item)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_MissingTags(t *testing.T) {
	_, err := Classify(model.Item{Key: "broken"})

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "broken", vErr.Value)
}

func TestMode(t *testing.T) {
	assert.Equal(t, 100, Mode([]int{100, 100, 105, 110}))
	assert.Equal(t, 50, Mode([]int{50, 80, 120}), "all unique: first value")
	assert.Equal(t, 80, Mode([]int{50, 80, 80, 120, 120}), "tie: first in order")
	assert.Equal(t, 120, Mode([]int{120, 120, 80, 80}), "tie: first in order, descending")
	assert.Equal(t, 0, Mode(nil))
}

func TestDisparity(t *testing.T) {
	assert.InDelta(t, 0.05, Disparity(105, 100), 1e-9)
	assert.InDelta(t, 0.05, Disparity(95, 100), 1e-9)
	assert.Equal(t, 0.0, Disparity(0, 0))
	assert.True(t, math.IsInf(Disparity(5, 0), 1))
}

func TestComputeRecommendation_EarlyAccept(t *testing.T) {
	orders := sells(100, 100, 105, 300)

	rec := ComputeRecommendation(orders, model.OrderSell, regular, "", DefaultOptions())
	require.NotNil(t, rec)

	assert.Equal(t, 100, rec.Price)
	assert.Equal(t, 100, rec.ReferenceMode)
	assert.Equal(t, 0.0, rec.DisparityRatio)
	assert.Equal(t, 1, rec.SampleSize)
	assert.Equal(t, "seller0", rec.ReferenceOwner, "owner of the first 100")
}

func TestComputeRecommendation_AllDivergentFallback(t *testing.T) {
	orders := sells(120, 50, 80)

	rec := ComputeRecommendation(orders, model.OrderSell, regular, "", DefaultOptions())
	require.NotNil(t, rec)

	want := &Recommendation{
		Price:          50,
		ReferenceMode:  50,
		DisparityRatio: 0,
		SampleSize:     3,
		ReferenceOwner: "",
		Strategy:       StrategyMode,
		Tier:           TierLow,
		MarketPrice:    50,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeRecommendation_ModeCorrectness(t *testing.T) {
	rec := ComputeRecommendation(sells(110, 105, 100, 100), model.OrderSell, regular, "", DefaultOptions())
	require.NotNil(t, rec)
	assert.Equal(t, 100, rec.ReferenceMode)
}

func TestComputeRecommendation_BuySide(t *testing.T) {
	orders := sells(30, 45, 45, 44, 10)
	for i := range orders {
		orders[i].Type = model.OrderBuy
	}

	rec := ComputeRecommendation(orders, model.OrderBuy, regular, "", DefaultOptions())
	require.NotNil(t, rec)

	// Sorted descending: 45, 45, 44, 30, 10
	assert.Equal(t, 45, rec.Price)
	assert.Equal(t, 45, rec.ReferenceMode)
	assert.Equal(t, "seller1", rec.ReferenceOwner)
	assert.Equal(t, 45, rec.MarketPrice)
}

func TestComputeRecommendation_Filters(t *testing.T) {
	t.Run("own orders excluded", func(t *testing.T) {
		orders := sells(90, 90, 100, 100)
		orders[0].OwnerName = "me"
		orders[1].OwnerName = "me"

		rec := ComputeRecommendation(orders, model.OrderSell, regular, "me", DefaultOptions())
		require.NotNil(t, rec)
		assert.Equal(t, 100, rec.Price)
	})

	t.Run("offline owners excluded", func(t *testing.T) {
		orders := sells(10, 100, 100)
		orders[0].OwnerOnline = false

		rec := ComputeRecommendation(orders, model.OrderSell, regular, "", DefaultOptions())
		require.NotNil(t, rec)
		assert.Equal(t, 100, rec.Price)
	})

	t.Run("only max rank for leveled items", func(t *testing.T) {
		orders := sells(10, 10, 80, 82)
		orders[0].Rank = rank(0)
		orders[1].Rank = nil
		orders[2].Rank = rank(5)
		orders[3].Rank = rank(5)

		class := Classification{Variant: VariantArcane, MaxRank: 5}
		rec := ComputeRecommendation(orders, model.OrderSell, class, "", DefaultOptions())
		require.NotNil(t, rec)
		assert.Equal(t, 80, rec.Price)
	})

	t.Run("leveled item with no max rank", func(t *testing.T) {
		orders := sells(10, 20)
		orders[0].Rank = rank(0)
		orders[1].Rank = rank(0)

		class := Classification{Variant: VariantMod, MaxRank: 0}
		assert.Nil(t, ComputeRecommendation(orders, model.OrderSell, class, "", DefaultOptions()))
	})

	t.Run("input not reordered", func(t *testing.T) {
		orders := sells(300, 100, 200)
		ComputeRecommendation(orders, model.OrderSell, regular, "", DefaultOptions())
		assert.Equal(t, []int{300, 100, 200}, prices(orders))
	})
}

func TestComputeRecommendation_NilIffEmptySample(t *testing.T) {
	tests := []struct {
		name    string
		orders  []model.MarketOrder
		own     string
		wantNil bool
	}{
		{"no orders", nil, "", true},
		{"all own", func() []model.MarketOrder {
			o := sells(10, 20)
			o[0].OwnerName, o[1].OwnerName = "me", "me"
			return o
		}(), "me", true},
		{"some own", sells(10, 20), "seller0", false},
		{"all offline", func() []model.MarketOrder {
			o := sells(10, 20)
			o[0].OwnerOnline, o[1].OwnerOnline = false, false
			return o
		}(), "", true},
		{"one comparable", sells(42), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ComputeRecommendation(tt.orders, model.OrderSell, regular, tt.own, DefaultOptions())
			assert.Equal(t, tt.wantNil, rec == nil)
		})
	}
}

func TestComputeRecommendation_SampleSizeBounds(t *testing.T) {
	samples := [][]int{
		{42},
		{100, 100, 105, 300},
		{50, 80, 120},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{200, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
		{5, 500, 5000, 50000},
	}

	for _, opts := range []Options{DefaultOptions(), {SampleSize: 3, Disparity: 0.1}, {SampleSize: 1, Disparity: 0}} {
		for _, s := range samples {
			rec := ComputeRecommendation(sells(s...), model.OrderSell, regular, "", opts)
			require.NotNil(t, rec)

			limit := min(opts.SampleSize, len(s))
			assert.GreaterOrEqual(t, rec.SampleSize, 1, "sample %v", s)
			assert.LessOrEqual(t, rec.SampleSize, limit, "sample %v opts %+v", s, opts)
		}
	}
}

func TestComputeRecommendation_Truncates(t *testing.T) {
	// The eleventh and later orders are outside the sample.
	prices := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 11, 11}
	rec := ComputeRecommendation(sells(prices...), model.OrderSell, regular, "", DefaultOptions())
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.ReferenceMode)
}

func TestComputeRecommendation_EndToEndBand(t *testing.T) {
	competitors := sells(100, 102, 98, 101, 99, 150, 97, 103, 96, 94)

	rec := ComputeRecommendation(competitors, model.OrderSell, regular, "me", DefaultOptions())
	require.NotNil(t, rec)

	assert.GreaterOrEqual(t, rec.Price, 90)
	assert.LessOrEqual(t, rec.Price, 100)

	result := model.NewAdjustmentResult(model.MarketOrder{ID: "mine", Price: 120}, rec.Price)
	assert.Negative(t, result.Delta)
	want := float64(rec.Price-120) / 120 * 100
	got, _ := result.PercentChange.Float64()
	assert.InDelta(t, want, got, 1e-9)
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		price int
		want  Tier
	}{
		{0, TierLow},
		{54, TierLow},
		{55, TierMid},
		{149, TierMid},
		{150, TierHigh},
		{5000, TierHigh},
	}

	for _, tt := range tests {
		if got := ClassifyTier(tt.price); got != tt.want {
			t.Errorf("ClassifyTier(%d) = %s, want %s", tt.price, got, tt.want)
		}
	}
}

func TestMarkup(t *testing.T) {
	assert.Equal(t, -15, Markup(TierLow, model.OrderBuy))
	assert.Equal(t, -1, Markup(TierLow, model.OrderSell))
	assert.Equal(t, -20, Markup(TierMid, model.OrderBuy))
	assert.Equal(t, -2, Markup(TierMid, model.OrderSell))
	assert.Equal(t, -30, Markup(TierHigh, model.OrderBuy))
	assert.Equal(t, -5, Markup(TierHigh, model.OrderSell))
}

func TestTierStrategy(t *testing.T) {
	s := TierStrategy{Options: DefaultOptions()}

	rec := s.Recommend(sells(160, 155, 170), model.OrderSell, regular, "")
	require.NotNil(t, rec)
	assert.Equal(t, 150, rec.Price)
	assert.Equal(t, 155, rec.MarketPrice)
	assert.Equal(t, TierHigh, rec.Tier)
	assert.Equal(t, StrategyTier, rec.Strategy)
	assert.Equal(t, "seller1", rec.ReferenceOwner)

	buys := sells(40, 60, 58)
	for i := range buys {
		buys[i].Type = model.OrderBuy
	}
	rec = s.Recommend(buys, model.OrderBuy, regular, "")
	require.NotNil(t, rec)
	assert.Equal(t, 40, rec.Price, "highest buy 60 is mid tier: 60-20")

	assert.Nil(t, s.Recommend(nil, model.OrderSell, regular, ""))
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StrategyMode, s.Name())

	s, err = NewStrategy("tier", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StrategyTier, s.Name())

	_, err = NewStrategy("average", DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestAnalyze(t *testing.T) {
	book := model.OrderBook{
		Sell: sells(100, 90, 120, 110),
		Buy:  sells(50),
	}
	book.Sell = append(book.Sell, model.MarketOrder{Price: 1, OwnerOnline: false})

	stats := Analyze(book, regular)
	require.NotNil(t, stats)

	assert.Equal(t, 4, stats.OnlineSellers)
	assert.Equal(t, 90, stats.LowestPrice)
	assert.Equal(t, TierMid, stats.Tier)
	assert.Equal(t, "105", stats.Median.String())
	assert.Equal(t, "105", stats.Mean.String())
	assert.Equal(t, 90, stats.Min)
	assert.Equal(t, 120, stats.Max)
	assert.Equal(t, "10", stats.AverageGap.String())
	assert.Equal(t, 30, stats.PriceRange)
	assert.Equal(t, 1, stats.BuyOrders)
	assert.Equal(t, 5, stats.SellOrders)
}

func TestAnalyze_OddCountAndSingle(t *testing.T) {
	stats := Analyze(model.OrderBook{Sell: sells(30, 10, 20)}, regular)
	require.NotNil(t, stats)
	assert.Equal(t, "20", stats.Median.String())

	stats = Analyze(model.OrderBook{Sell: sells(7)}, regular)
	require.NotNil(t, stats)
	assert.True(t, stats.AverageGap.IsZero())
	assert.Equal(t, 0, stats.PriceRange)
}

func TestAnalyze_NoOnlineSellers(t *testing.T) {
	orders := sells(10)
	orders[0].OwnerOnline = false
	assert.Nil(t, Analyze(model.OrderBook{Sell: orders}, regular))
	assert.Nil(t, Analyze(model.OrderBook{}, regular))
}
