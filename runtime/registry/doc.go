// Package registry owns the identity of the cells of one live notebook
// session.
//
// A Registry holds a single cell id generator for its whole lifetime. Load
// consumes it in notebook order, exactly as a snapshot conversion does, so
// the ids bound at load time match a snapshot of the same source. Cells
// created later draw further ids from the same, already advanced generator;
// ids of deleted cells are never issued again.
package registry
