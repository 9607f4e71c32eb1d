package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/nbcell"
)

var rootCmd = &cobra.Command{
	Use:           "nbcell",
	Short:         "Notebook cell identifier tools",
	Long:          `nbcell parses reactive notebooks and assigns stable cell identifiers`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(idsCmd)

	rootCmd.PersistentFlags().String("config", "", "configuration file URL (yaml|json)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug output to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService builds the service from the persistent flags.
func newService(cmd *cobra.Command) (*nbcell.Service, error) {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	options := []nbcell.Option{nbcell.WithLogger(logger)}
	configURL, _ := cmd.Root().PersistentFlags().GetString("config")
	if configURL != "" {
		config, err := nbcell.LoadConfig(contextOf(cmd), configURL)
		if err != nil {
			return nil, err
		}
		options = append(options, nbcell.WithConfig(config))
	}
	return nbcell.New(options...)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
