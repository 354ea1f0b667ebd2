package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "analyze [keyword...]",
		Short: "Run the batched semantic analysis through the language model",
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := readKeywords(cmd, args, file)
			if err != nil {
				return err
			}
			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, err := a.Services.Analysis.Analyze(ctx, keywords)
			if err != nil && res == nil {
				return err
			}
			if opts.json {
				if werr := writeJSON(cmd.OutOrStdout(), res); werr != nil {
					return werr
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "batches: %d (failed %d, cached %d)\n", res.TotalBatches, res.FailedCount, res.CachedBatches)
			for _, c := range res.Clusters {
				fmt.Fprintf(out, "cluster %s: %d keywords\n", c.Name, len(c.Keywords))
			}
			for _, d := range res.Duplicates {
				fmt.Fprintf(out, "duplicate: %s %v\n", d.Canonical, d.Keywords)
			}
			for _, c := range res.Canibalizations {
				fmt.Fprintf(out, "canibalization: %v\n", c.Keywords)
			}
			for _, e := range res.BatchErrors {
				fmt.Fprintf(out, "error: %s\n", e)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read keywords from file, one per line (- for stdin)")
	return cmd
}
