// Package progress keeps aggregated counters for a batch of notebook
// conversions. The tracker travels in the context so every worker can update
// it without a global registry.
package progress
