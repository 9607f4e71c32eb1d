// Package cellid issues short, reproducible cell identifiers.
//
// A Generator is owned by exactly one consumer (a session registry or a
// single snapshot conversion). Two fresh generators built with the same
// options yield the same sequence of identifiers.
package cellid
