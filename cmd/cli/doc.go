// Package cli wires the exclusion-screener root command, configuration
// loading, and structured logging for the command-line entrypoint.
package cli
