// Package tracing wires OpenTelemetry into parsing, conversion and session
// registry operations. Spans are no-ops until Init or InitWithExporter
// installs a provider.
package tracing
