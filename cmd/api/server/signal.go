package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignal returns a context canceled on SIGINT or SIGTERM. A second signal
// while shutdown is in progress exits the process immediately.
func WithSignal(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-parent.Done():
			return
		}

		if _, ok := <-sigCh; ok {
			os.Exit(1)
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		close(sigCh)
		cancel()
	}
}
