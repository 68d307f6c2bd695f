//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals cancel a running render between frames.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
