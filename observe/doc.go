// Package observe provides the observability primitives of the calculation
// pipeline: otel tracing and metrics, a structured JSON logger, and a stage
// middleware that ties the three together.
//
// It performs no I/O beyond exporter setup and log writes. Components accept
// a Logger or Metrics through their options and default to no-ops, so the
// package is optional for library users.
package observe
