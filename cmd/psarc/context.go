package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptibleContext returns a context which is canceled when the program
// is interrupted (i.e. receiving SIGINT or SIGTERM), so a pack or unpack
// run can flush and exit cleanly instead of leaving a partial archive.
func interruptibleContext() (context.Context, context.CancelFunc) {
	ctx, canc := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		// Subsequent signals result in immediate termination, useful in
		// case cleanup hangs.
		signal.Stop(sig)
		canc()
	}()
	return ctx, canc
}
