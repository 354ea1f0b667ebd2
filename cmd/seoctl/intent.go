package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/intent"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/naming"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/priority"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/sitemap"
)

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "classify [keyword...]",
		Short: "Classify the search intent of each keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := readKeywords(cmd, args, file)
			if err != nil {
				return err
			}
			if len(keywords) == 0 {
				return fmt.Errorf("no keywords given")
			}
			type row struct {
				Keyword string `json:"keyword"`
				intent.Result
			}
			rows := make([]row, 0, len(keywords))
			for _, k := range keywords {
				rows = append(rows, row{Keyword: k, Result: intent.Classify(k)})
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\t%s\n", r.Keyword, r.Intent, r.Confidence, strings.Join(r.MatchedPatterns, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read keywords from file, one per line (- for stdin)")
	return cmd
}

func newGroupCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "group [keyword...]",
		Short: "Group keywords by intent and suggest a cluster name per group",
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := readKeywords(cmd, args, file)
			if err != nil {
				return err
			}
			refs := make([]seo.KeywordRef, 0, len(keywords))
			for _, k := range keywords {
				refs = append(refs, seo.KeywordRef{Text: k})
			}
			groups := intent.Group(refs)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			for _, g := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d)\n", g.SuggestedName, g.Intent, len(g.Keywords))
				for _, k := range g.Keywords {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", k.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read keywords from file, one per line (- for stdin)")
	return cmd
}

func newNameCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "name [keyword...]",
		Short: "Suggest a cluster name for a set of keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := readKeywords(cmd, args, file)
			if err != nil {
				return err
			}
			name := naming.Name(keywords)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"name": name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read keywords from file, one per line (- for stdin)")
	return cmd
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var in priority.Input
	var difficulty int
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the priority score of a cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("difficulty") {
				in.Difficulty = &difficulty
			}
			score := priority.Score(in)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), score)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seo=%.2f business=%.2f difficulty=%.2f final=%d\n",
				score.SEOScore, score.BusinessValue, score.DifficultyScore, score.FinalPriority)
			return nil
		},
	}
	cmd.Flags().IntVar(&in.SearchVolumeTotal, "volume", 0, "Total monthly search volume")
	cmd.Flags().IntVar(&difficulty, "difficulty", priority.DefaultDifficulty, "Average keyword difficulty (0-100)")
	cmd.Flags().IntVar(&in.KeywordCount, "count", 0, "Number of keywords in the cluster")
	return cmd
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var name, intentLabel string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a cluster to a protected page or suggest a new URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			d := sitemap.Match(name, seo.ParseIntent(intentLabel))
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tprotected=%t\n", d.Action, d.URL, d.Protected)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Cluster name")
	cmd.Flags().StringVar(&intentLabel, "intent", string(seo.IntentInformational), "Cluster intent")
	return cmd
}
