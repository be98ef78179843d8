// Command pricer keeps a warframe.market account's listings competitively
// priced and manages its presence status.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Wipe enclave keys and any locked buffers on the way out.
	defer memguard.Purge()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	root, cleanup := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	defer cleanup()

	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
