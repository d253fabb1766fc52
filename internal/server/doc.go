// Package server wires and runs the node's HTTP transport.
//
// It provides orchestration for the server lifecycle: startup, background
// worker launch, signal handling, and graceful shutdown.
package server
