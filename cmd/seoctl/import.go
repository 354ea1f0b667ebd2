package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/seoplanner-backend/internal/services"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		file  string
		topic []string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import keywords from a CSV of text,search_volume[,difficulty]",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := readKeywordCSV(f)
			if err != nil {
				return err
			}

			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			res, err := a.Services.Keyword.Import(cmd.Context(), rows, services.ImportOptions{TopicTerms: topic})
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, duplicates %d, off topic %d\n", res.Imported, res.Duplicates, res.OffTopic)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file")
	cmd.Flags().StringSliceVar(&topic, "topic", nil, "Discard keywords mentioning none of these terms")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readKeywordCSV accepts an optional header row; a first column named "text"
// or "keyword" marks it.
func readKeywordCSV(r io.Reader) ([]services.KeywordImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	out := make([]services.KeywordImportRow, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if i == 0 {
			if h := strings.ToLower(strings.TrimSpace(rec[0])); h == "text" || h == "keyword" {
				continue
			}
		}
		row := services.KeywordImportRow{Text: strings.TrimSpace(rec[0])}
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			v, err := strconv.Atoi(strings.TrimSpace(rec[1]))
			if err != nil {
				return nil, fmt.Errorf("line %d: search_volume %q: %w", i+1, rec[1], err)
			}
			row.SearchVolume = v
		}
		if len(rec) > 2 && strings.TrimSpace(rec[2]) != "" {
			d, err := strconv.Atoi(strings.TrimSpace(rec[2]))
			if err != nil {
				return nil, fmt.Errorf("line %d: difficulty %q: %w", i+1, rec[2], err)
			}
			row.Difficulty = &d
		}
		out = append(out, row)
	}
	return out, nil
}
