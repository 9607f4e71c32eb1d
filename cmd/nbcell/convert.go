package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/nbcell"
	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/progress"
	"github.com/viant/nbcell/service/converter"
	"github.com/viant/nbcell/service/meta"
	"golang.org/x/sync/errgroup"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] notebook.py...",
	Short: "Convert notebooks into serialised documents",
	Long:  `Convert parses each notebook with its own fresh generator and writes the resulting document`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().String("format", "", "output format (json|yaml|msgpack), defaults to the configured format")
	convertCmd.Flags().String("out", "", "output directory URL, stdout when empty")
	convertCmd.Flags().Int("jobs", runtime.GOMAXPROCS(0), "number of notebooks converted in parallel")
}

func runConvert(cmd *cobra.Command, args []string) error {
	srv, err := newService(cmd)
	if err != nil {
		return err
	}
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format := srv.Config().Format()
	if formatName != "" {
		if format, err = converter.ParseFormat(formatName); err != nil {
			return err
		}
	}
	outURL, _ := cmd.Flags().GetString("out")
	jobs, _ := cmd.Flags().GetInt("jobs")

	ctx, tracker := progress.WithNewTracker(contextOf(cmd), "convert", func(p progress.Progress) {
		if p.Done() {
			srv.Logger().Info("conversion finished", "converted", p.Converted, "failed", p.Failed, "cells", p.Cells)
		}
	})
	docs, err := convertAll(ctx, srv, args, jobs)
	if err != nil {
		snapshot := tracker.Snapshot()
		return fmt.Errorf("converted %d of %d notebooks: %w", snapshot.Converted, snapshot.Total, err)
	}
	if outURL == "" {
		return writeDocuments(cmd.OutOrStdout(), docs, format)
	}
	return uploadDocuments(contextOf(cmd), afs.New(), outURL, docs, format)
}

// convertAll converts files in parallel, preserving argument order.
func convertAll(ctx context.Context, srv *nbcell.Service, files []string, jobs int) ([]*model.Document, error) {
	if jobs < 1 {
		jobs = 1
	}
	docs := make([]*model.Document, len(files))
	progress.UpdateCtx(ctx, progress.Delta{Total: len(files)})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, location := range files {
		g.Go(func() error {
			progress.UpdateCtx(gctx, progress.Delta{Running: 1})
			doc, err := srv.ConvertURL(gctx, location)
			if err != nil {
				progress.UpdateCtx(gctx, progress.Delta{Running: -1, Failed: 1})
				return err
			}
			progress.UpdateCtx(gctx, progress.Delta{Running: -1, Converted: 1, Cells: len(doc.Cells)})
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func writeDocuments(w io.Writer, docs []*model.Document, format converter.Format) error {
	for _, doc := range docs {
		data, err := converter.Encode(doc, format)
		if err != nil {
			return err
		}
		if _, err = w.Write(data); err != nil {
			return err
		}
		if format != converter.FormatMsgpack {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func uploadDocuments(ctx context.Context, fs afs.Service, outURL string, docs []*model.Document, format converter.Format) error {
	out := meta.New(fs, url.Normalize(outURL, file.Scheme))
	for _, doc := range docs {
		data, err := converter.Encode(doc, format)
		if err != nil {
			return err
		}
		location := doc.Name + format.Extension()
		if err = out.Upload(ctx, location, data); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, out.URL(location))
	}
	return nil
}
