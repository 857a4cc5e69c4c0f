// Package orchestrator wires design resolution, linting, validation and
// rendering into a single entry point used by the CLI and the HTTP server.
package orchestrator
