package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	var (
		file        string
		discard     []string
		keepPending []string
		policy      string
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Apply a silo/category/page proposal to the keyword store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := readProposal(file)
			if err != nil {
				return err
			}
			discardIDs, err := parseIDs(discard)
			if err != nil {
				return fmt.Errorf("--discard: %w", err)
			}
			keepIDs, err := parseIDs(keepPending)
			if err != nil {
				return fmt.Errorf("--keep-pending: %w", err)
			}

			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			res, err := a.Services.Structure.Apply(cmd.Context(), services.ApplyProposalInput{
				Proposal:              *proposal,
				DiscardKeywordIDs:     discardIDs,
				KeepPendingKeywordIDs: keepIDs,
				Policy:                policy,
			})
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "silos: %d created, %d reused\n", res.SilosCreated, res.SilosReused)
			fmt.Fprintf(out, "categories: %d created, %d reused\n", res.CategoriesCreated, res.CategoriesReused)
			fmt.Fprintf(out, "pages: %d created, %d reused\n", res.PagesCreated, res.PagesReused)
			fmt.Fprintf(out, "keywords: %d clustered, %d discarded, %d pending\n", res.KeywordsClustered, res.KeywordsDiscarded, res.KeywordsPending)
			for _, u := range res.Unresolved {
				fmt.Fprintf(out, "unresolved: %s\n", u)
			}
			for _, e := range res.Errors {
				fmt.Fprintf(out, "error: %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Proposal file (.yaml, .yml or .json)")
	cmd.Flags().StringSliceVar(&discard, "discard", nil, "Keyword ids to discard explicitly")
	cmd.Flags().StringSliceVar(&keepPending, "keep-pending", nil, "Keyword ids to keep pending")
	cmd.Flags().StringVar(&policy, "policy", "", "Unreferenced pending keywords: discard or pending")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readProposal decodes YAML for .yaml/.yml files and JSON otherwise.
func readProposal(path string) (*seo.Proposal, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p seo.Proposal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &p)
	default:
		err = json.Unmarshal(raw, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("decode proposal %s: %w", path, err)
	}
	return &p, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", s)
		}
		out = append(out, id)
	}
	return out, nil
}
