// Command nichelens-analyze runs a one-shot niche analysis against the corpus
// and prints the result as JSON. Useful for batch viability sweeps without
// standing up the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"nichelens/internal/platform/config"
	"nichelens/internal/platform/logger"
	"nichelens/internal/platform/store"

	"nichelens/internal/modkit/repokit"
	nichedomain "nichelens/internal/services/api/niche/domain"
	nichesvc "nichelens/internal/services/api/niche/service"
	corpusrepo "nichelens/internal/services/corpus/repo"
	corpussvc "nichelens/internal/services/corpus/service"
)

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	var (
		name      = flag.String("name", "", "niche name for the report")
		seedsCSV  = flag.String("seeds", "", "comma separated seed hashtags (required)")
		geography = flag.String("geo", "", "optional geography filter")
		maxLeads  = flag.Int("max-leads", 0, "cap on corpus leads (0 = default)")
		topPairs  = flag.Int("top-pairs", 0, "co-occurrence pairs to report (0 = skip)")
		pretty    = flag.Bool("pretty", true, "indent JSON output")
	)
	flag.Parse()

	seeds := strings.Split(*seedsCSV, ",")
	out := seeds[:0]
	for _, s := range seeds {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	seeds = out
	if len(seeds) == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "usage: nichelens-analyze -seeds fitness,crossfit [-geo br] [-top-pairs 20]")
		os.Exit(2)
	}
	if *name == "" {
		*name = seeds[0]
	}

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	ctx := context.Background()
	chURL := chCfg.MayString("DBURL", "")

	st, err := store.Open(ctx, store.Config{
		AppName: "nichelens",
		PG: store.PGConfig{
			Enabled:  true,
			URL:      pgCfg.MustString("DBURL"),
			MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 2)),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "nichelens-analyze",
		},
	}, store.WithLogger(*l))
	must(err)
	defer func() { _ = st.Close(ctx) }()

	corpus := corpussvc.New(repokit.TxRunner(st.PG), corpusrepo.NewHybrid(st.CH))
	svc := nichesvc.New(corpus, nichesvc.Config{})

	in := nichedomain.AnalyzeInput{
		ValidateInput: nichedomain.ValidateInput{
			NicheName: *name,
			Seeds:     seeds,
			Geography: *geography,
			MaxLeads:  *maxLeads,
		},
		TopPairs: *topPairs,
	}

	resp, err := svc.Analyze(ctx, in)
	must(err)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	must(enc.Encode(resp))
}
