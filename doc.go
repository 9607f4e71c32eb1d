// Package nbcell assigns stable cell identifiers to reactive notebooks.
//
// A notebook source file is parsed into an ordered list of cells. Each cell
// receives a short identifier drawn from a seeded generator, so the same
// source always yields the same ids. A live session keeps those ids in a
// registry while the notebook is edited, and the stateless converter
// reproduces the ids that a fresh session would assign:
//
//	srv := nbcell.New()
//	doc, _ := srv.ConvertURL(ctx, "notebook.py")
//	session, _ := srv.Runtime().OpenSession(ctx, "notebook.py")
//	same := slices.Equal(doc.IDs(), session.Registry.CellIDs())
package nbcell
