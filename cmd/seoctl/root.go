package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/seoplanner-backend/internal/app"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type rootOptions struct {
	json    bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "seoctl",
		Short:         "Keyword intent, clustering and site structure tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Output as JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level to stderr")

	root.AddCommand(
		newClassifyCmd(opts),
		newGroupCmd(opts),
		newNameCmd(opts),
		newScoreCmd(opts),
		newMatchCmd(opts),
		newAnalyzeCmd(opts),
		newImportCmd(opts),
		newReconcileCmd(opts),
	)
	return root
}

func (o *rootOptions) logger() (*logger.Logger, error) {
	mode := "test"
	if o.verbose {
		mode = "development"
	}
	return logger.New(mode)
}

// openApp wires the full application from the environment, the same way the
// server does. DB_DRIVER=sqlite keeps it local.
func (o *rootOptions) openApp() (*app.App, error) {
	log, err := o.logger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.Build(log, app.LoadConfig(log))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readKeywords returns args, or one keyword per line from file ("-" is stdin).
func readKeywords(cmd *cobra.Command, args []string, file string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	if file == "" {
		return out, nil
	}

	var r io.Reader
	if file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
