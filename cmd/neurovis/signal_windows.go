//go:build windows

package main

import "os"

// shutdownSignals cancel a running render between frames.
// SIGTERM does not exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
