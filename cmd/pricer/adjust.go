package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/market-pricer/internal/adjust"
	"github.com/rickgao/market-pricer/internal/model"
)

func newAdjustCmd(appFn func() *app) *cobra.Command {
	var (
		side     string
		yes      bool
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Recommend prices for your listings and optionally apply them",
		Long: `Runs a dry run over your visible listings of one side, prints the
recommended changes and asks before applying them.

Example:
  pricer adjust --side sell
  pricer adjust --side buy --strategy tier --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderSide := model.OrderType(side)
			if !orderSide.Valid() {
				return &model.ValidationError{Field: "side", Value: side, Reason: "must be buy or sell"}
			}
			a := appFn()
			confirm := func(prompt string) (bool, error) {
				if yes {
					return true, nil
				}
				return askYesNo(a.in, a.out, prompt)
			}
			return runAdjust(cmd.Context(), a, orderSide, strategy, confirm)
		},
	}

	cmd.Flags().StringVar(&side, "side", string(model.OrderSell), "listings to adjust: sell or buy")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "apply recommendations without asking")
	cmd.Flags().StringVar(&strategy, "strategy", "", "pricing strategy: mode or tier (default from config)")

	return cmd
}

// runAdjust signs in, dry-runs the listings of side, and replays the
// recommendations if confirm agrees. A cancelled run is not an error.
func runAdjust(ctx context.Context, a *app, side model.OrderType, strategyName string, confirm func(string) (bool, error)) error {
	strategy, err := a.strategy(strategyName)
	if err != nil {
		return err
	}

	if _, err := a.signIn(ctx); err != nil {
		return err
	}

	orch := a.orchestrator(strategy)
	listings, err := orch.LoadListings(ctx, side)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(a.out, "Cancelled before any listing was processed.")
		return nil
	}
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Fprintf(a.out, "No visible %s listings.\n", side)
		return nil
	}

	dry, err := orch.Run(ctx, listings, side, adjust.ModeDryRun)
	if err != nil {
		return err
	}
	if err := a.printer.Summary(dry); err != nil {
		return err
	}
	if dry.Cancelled {
		return nil
	}

	pending := len(dry.Pending())
	if pending == 0 {
		fmt.Fprintln(a.out, "All listings are already competitively priced.")
		return nil
	}

	ok, err := confirm(fmt.Sprintf("Apply %d price change(s)?", pending))
	if errors.Is(err, errNoInput) {
		return nil
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "No changes applied.")
		return nil
	}

	applied, err := orch.Replay(ctx, dry)
	if err != nil {
		return err
	}
	return a.printer.Summary(applied)
}
