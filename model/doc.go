// Package model contains the in-memory representation of a parsed notebook
// (the ordered cell definitions produced by the parser) and the serialised
// notebook document produced by the snapshot converter.
//
// Cell identifiers are issued by the cellid sub-package; AssignIDs is the one
// routine that binds them to cells, shared by every consumer so that a live
// session and a snapshot agree on the ids of the cells present at load time.
package model
