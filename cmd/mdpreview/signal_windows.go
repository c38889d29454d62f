//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext derives a context canceled on interrupt.
// SIGTERM is not delivered on Windows.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
