package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/market-pricer/internal/connection"
	"github.com/rickgao/market-pricer/internal/model"
)

func newStatusCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show or change your presence status",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show your current status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			s, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}
			profile, err := a.client.GetProfile(cmd.Context(), s.User.InGameName)
			if err != nil {
				return err
			}
			return a.printer.Profile(profile)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <online|ingame|offline>",
		Short:     "Set your status over the presence connection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.StatusOnline), string(model.StatusInGame), string(model.StatusOffline)},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			requested, err := model.ParseStatus(args[0])
			if err != nil {
				return err
			}
			if _, err := a.signIn(cmd.Context()); err != nil {
				return err
			}

			confirmed, err := setStatusWatched(cmd.Context(), a, requested)
			if err != nil {
				return err
			}
			if confirmed != requested {
				fmt.Fprintf(a.out, "Requested %s but the marketplace reports %s.\n", requested, confirmed)
				return nil
			}
			fmt.Fprintf(a.out, "Status is now %s.\n", confirmed)
			return nil
		},
	})

	return cmd
}

// setStatusWatched sets the status while logging presence connection
// changes as they happen.
func setStatusWatched(ctx context.Context, a *app, status model.Status) (model.Status, error) {
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	g, gctx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		watchTransitions(gctx, a.sessions.Transitions(), a.logger)
		return nil
	})

	var confirmed model.Status
	g.Go(func() error {
		defer stopWatch()
		var err error
		confirmed, err = a.sessions.SetStatus(ctx, string(status))
		return err
	})

	if err := g.Wait(); err != nil {
		return "", err
	}
	return confirmed, nil
}

// watchTransitions logs presence state changes until ctx is done.
func watchTransitions(ctx context.Context, transitions <-chan connection.Transition, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case tr := <-transitions:
			if tr.Err != nil {
				logger.Warn("presence connection", "from", tr.From, "to", tr.To, "err", tr.Err)
				continue
			}
			logger.Info("presence connection", "from", tr.From, "to", tr.To)
		}
	}
}
