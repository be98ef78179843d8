package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/market-pricer/internal/model"
)

func newOrdersCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, edit or delete your listings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			s, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}
			book, err := a.client.GetOwnOrders(cmd.Context(), s.User.InGameName)
			if err != nil {
				return err
			}
			return a.printer.Orders(book)
		},
	})

	cmd.AddCommand(newOrdersUpdateCmd(appFn))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <order-id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			if _, err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			deleted, err := a.client.DeleteOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("order %s was not deleted", args[0])
			}
			fmt.Fprintf(a.out, "Deleted order %s.\n", args[0])
			return nil
		},
	})

	return cmd
}

// errEmptyPatch is returned by orders update when no field flag is given.
var errEmptyPatch = errors.New("nothing to update: pass at least one of --price, --quantity, --rank, --visible")

func newOrdersUpdateCmd(appFn func() *app) *cobra.Command {
	var (
		price, quantity, rank int
		visible               bool
	)

	cmd := &cobra.Command{
		Use:   "update <order-id>",
		Short: "Change a listing's price, quantity, rank or visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := model.OrderPatch{}
			flags := cmd.Flags()
			if flags.Changed("price") {
				patch.Price = &price
			}
			if flags.Changed("quantity") {
				patch.Quantity = &quantity
			}
			if flags.Changed("rank") {
				patch.Rank = &rank
			}
			if flags.Changed("visible") {
				patch.Visible = &visible
			}
			if err := validatePatch(patch); err != nil {
				return err
			}

			a := appFn()
			if _, err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			updated, err := a.client.UpdateOrder(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			book := model.OrderBook{}
			if updated.Type == model.OrderBuy {
				book.Buy = append(book.Buy, *updated)
			} else {
				book.Sell = append(book.Sell, *updated)
			}
			return a.printer.Orders(book)
		},
	}

	cmd.Flags().IntVar(&price, "price", 0, "new price in platinum")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new quantity")
	cmd.Flags().IntVar(&rank, "rank", 0, "new mod or arcane rank")
	cmd.Flags().BoolVar(&visible, "visible", true, "show the listing to other users")

	return cmd
}

func validatePatch(p model.OrderPatch) error {
	if p.Empty() {
		return errEmptyPatch
	}
	if p.Price != nil && *p.Price < 1 {
		return &model.ValidationError{Field: "price", Value: fmt.Sprint(*p.Price), Reason: "must be at least 1"}
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return &model.ValidationError{Field: "quantity", Value: fmt.Sprint(*p.Quantity), Reason: "must be at least 1"}
	}
	if p.Rank != nil && *p.Rank < 0 {
		return &model.ValidationError{Field: "rank", Value: fmt.Sprint(*p.Rank), Reason: "must not be negative"}
	}
	return nil
}
