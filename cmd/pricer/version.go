package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/market-pricer/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "pricer "+version.String())
			return err
		},
	}
}
