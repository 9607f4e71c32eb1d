package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/viant/nbcell/model"
)

var idsCmd = &cobra.Command{
	Use:   "ids [flags] notebook.py",
	Short: "Print the cell ids assigned to a notebook",
	Args:  cobra.ExactArgs(1),
	RunE:  runIDs,
}

func runIDs(cmd *cobra.Command, args []string) error {
	srv, err := newService(cmd)
	if err != nil {
		return err
	}
	doc, err := srv.ConvertURL(contextOf(cmd), args[0])
	if err != nil {
		return err
	}
	return printIDs(cmd.OutOrStdout(), doc)
}

func printIDs(w io.Writer, doc *model.Document) error {
	for _, record := range doc.Cells {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", record.ID, record.Name); err != nil {
			return err
		}
	}
	return nil
}
