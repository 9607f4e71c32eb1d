// Package idgen issues session identifiers. Session ids only need to be
// unique, so they come from UUIDv7 rather than the deterministic cell id
// generator. NewFunc can be stubbed in tests.
package idgen
