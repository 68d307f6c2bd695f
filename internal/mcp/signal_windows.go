//go:build windows

package mcp

import "os"

// shutdownSignals stop the stdio server. Only Ctrl+C exists on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
