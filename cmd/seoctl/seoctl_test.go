package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestClassifyCmd(t *testing.T) {
	out, err := run(t, "", "classify", "--json", "comprar zapatillas running", "login gmail")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var rows []struct {
		Keyword string `json:"keyword"`
		Intent  string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(rows) != 2 || rows[0].Intent != "transactional" || rows[1].Intent != "navigational" {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestClassifyCmdReadsStdin(t *testing.T) {
	out, err := run(t, "# comment\nqué es seo técnico\n\n", "classify", "-f", "-")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.HasPrefix(out, "qué es seo técnico\tinformational\t1.00") {
		t.Fatalf("out=%q", out)
	}
	if _, err := run(t, "", "classify"); err == nil {
		t.Fatalf("expected error without keywords")
	}
}

func TestNameCmd(t *testing.T) {
	out, err := run(t, "", "name", "agencia seo madrid", "seo local madrid", "precio agencia seo")
	if err != nil {
		t.Fatalf("name: %v", err)
	}
	if strings.TrimSpace(out) != "Seo Agencia Madrid" {
		t.Fatalf("out=%q", out)
	}
}

func TestGroupCmd(t *testing.T) {
	out, err := run(t, "", "group", "--json", "comprar zapatillas", "precio zapatillas", "qué es seo")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	var groups []struct {
		Intent   string            `json:"intent"`
		Keywords []json.RawMessage `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(groups) == 0 || groups[0].Intent != "transactional" || len(groups[0].Keywords) != 2 {
		t.Fatalf("groups=%s", out)
	}
}

func TestScoreCmd(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"score", "--volume", "5000", "--count", "5"}, "final=28"},
		{[]string{"score", "--volume", "100000", "--count", "50", "--difficulty", "0"}, "final=100"},
		{[]string{"score", "--difficulty", "100"}, "final=0"},
	}
	for _, tc := range cases {
		out, err := run(t, "", tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if !strings.Contains(out, tc.want) {
			t.Fatalf("%v: out=%q want %q", tc.args, out, tc.want)
		}
	}
}

func TestMatchCmd(t *testing.T) {
	out, err := run(t, "", "match", "--name", "SEO Local", "--intent", "transaccional")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if out != "update\t/servicios/seo/local/\tprotected=true\n" {
		t.Fatalf("out=%q", out)
	}
	out, err = run(t, "", "match", "--name", "Zapatillas Running")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if out != "create\t/blog/zapatillas-running/\tprotected=false\n" {
		t.Fatalf("out=%q", out)
	}
	if _, err := run(t, "", "match"); err == nil {
		t.Fatalf("expected error without --name")
	}
}

func TestReadKeywordCSV(t *testing.T) {
	rows, err := readKeywordCSV(strings.NewReader("keyword,volume,kd\nseo local,1200,35\nseo madrid,,\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || rows[0].SearchVolume != 1200 || rows[0].Difficulty == nil || *rows[0].Difficulty != 35 {
		t.Fatalf("rows=%+v", rows)
	}
	if rows[1].Difficulty != nil || rows[1].SearchVolume != 0 {
		t.Fatalf("row 2=%+v", rows[1])
	}
	if _, err := readKeywordCSV(strings.NewReader("seo,many\n")); err == nil {
		t.Fatalf("expected error for bad volume")
	}
}

func TestImportThenReconcile(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "REDIS_ADDR", "NEO4J_URI", "OTEL_ENABLED", "RECONCILE_UNREFERENCED_POLICY"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "seoctl.db"))

	csvPath := filepath.Join(dir, "keywords.csv")
	if err := os.WriteFile(csvPath, []byte("seo local,1200\nseo local madrid,300\nrecetas veganas,50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "import", "-f", csvPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 3") {
		t.Fatalf("import out=%q", out)
	}

	proposalPath := filepath.Join(dir, "proposal.yaml")
	proposal := `silos:
  - name: SEO
    categories:
      - name: Servicios
        pages:
          - main_keyword: seo local
            secondary_keywords: [seo local madrid]
            type: service
            is_pillar: true
            intent: transactional
`
	if err := os.WriteFile(proposalPath, []byte(proposal), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "reconcile", "--json", "-f", proposalPath, "--policy", "pending")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	var res struct {
		SilosCreated      int `json:"silos_created"`
		PagesCreated      int `json:"pages_created"`
		KeywordsClustered int `json:"keywords_clustered"`
		KeywordsPending   int `json:"keywords_pending"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.SilosCreated != 1 || res.PagesCreated != 1 || res.KeywordsClustered != 2 || res.KeywordsPending != 1 {
		t.Fatalf("result=%+v", res)
	}

	if _, err := run(t, "", "reconcile", "-f", proposalPath, "--discard", "not-a-uuid"); err == nil {
		t.Fatalf("expected error for bad id")
	}
}
