package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickgao/market-pricer/internal/model"
	"github.com/rickgao/market-pricer/internal/pricing"
)

func newMarketCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Inspect the market for an item",
	}

	var side string
	analyze := &cobra.Command{
		Use:   "analyze <item name>",
		Short: "Show market statistics and the price each strategy recommends",
		Long: `Resolves the item by display name or url name, fetches its order book and
prints the online sell-side statistics together with the mode and tier
recommendations. No sign-in is needed.

Example:
  pricer market analyze Arcane Energize
  pricer market analyze --side buy ash_prime_set`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderSide := model.OrderType(side)
			if !orderSide.Valid() {
				return &model.ValidationError{Field: "side", Value: side, Reason: "must be buy or sell"}
			}
			return runAnalyze(cmd.Context(), appFn(), strings.Join(args, " "), orderSide)
		},
	}
	analyze.Flags().StringVar(&side, "side", string(model.OrderSell), "side to recommend for: sell or buy")
	cmd.AddCommand(analyze)

	return cmd
}

// runAnalyze prints market statistics for one item plus both strategies'
// recommendations. Only max-rank orders count for leveled items.
func runAnalyze(ctx context.Context, a *app, name string, side model.OrderType) error {
	key, err := a.catalog.Search(ctx, name)
	if err != nil {
		return err
	}
	item, err := a.catalog.Describe(ctx, key)
	if err != nil {
		return err
	}
	class, err := pricing.Classify(item)
	if err != nil {
		return err
	}
	book, err := a.client.GetItemOrders(ctx, key)
	if err != nil {
		return err
	}

	own := ""
	if user, ok := a.sessions.CurrentUser(); ok {
		own = user.InGameName
	}
	opts := pricing.Options{SampleSize: a.cfg.Pricing.SampleSize, Disparity: a.cfg.Pricing.Disparity}
	strategies := []pricing.Strategy{
		pricing.ModeStrategy{Options: opts},
		pricing.TierStrategy{Options: opts},
	}

	recs := make([]*pricing.Recommendation, 0, len(strategies))
	for _, s := range strategies {
		recs = append(recs, s.Recommend(book.Side(side), side, class, own))
	}

	label := item.Name
	if label == "" {
		label = key
	}
	a.logger.Debug("market analyzed", "item", key, "variant", class.Variant, "max_rank", class.MaxRank)
	return a.printer.Analysis(label, side, pricing.Analyze(book, class), recs)
}
