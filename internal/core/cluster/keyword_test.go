package cluster

import (
	"context"
	"fmt"
	"testing"

	perr "nichelens/internal/platform/errors"
)

func leadsWithTags(groups map[string]int) []Lead {
	var out []Lead
	i := 0
	for tag, n := range groups {
		for j := 0; j < n; j++ {
			out = append(out, Lead{
				ID:       fmt.Sprintf("%s_%d", tag, j),
				Hashtags: []string{tag, tag + "_extra"},
			})
			i++
		}
	}
	return out
}

func TestKeywordGroupsBySignature(t *testing.T) {
	leads := leadsWithTags(map[string]int{"fitness": 6, "marketing": 5, "crypto": 4})

	out, err := NewKeyword().Cluster(context.Background(), leads, Params{K: 3})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if out.Insufficient {
		t.Fatal("unexpected insufficient-data outcome")
	}
	if len(out.SubClusters) != 3 {
		t.Fatalf("clusters = %d, want 3", len(out.SubClusters))
	}
	if out.CoveredLeads != len(leads) {
		t.Fatalf("covered = %d, want %d", out.CoveredLeads, len(leads))
	}
	// largest first
	if out.SubClusters[0].Name != "fitness" || out.SubClusters[0].MemberCount != 6 {
		t.Fatalf("first cluster = %+v, want fitness with 6 members", out.SubClusters[0])
	}
	for _, sc := range out.SubClusters {
		if sc.MemberCount != len(sc.MemberIDs) {
			t.Fatalf("member count mismatch in %+v", sc)
		}
		if len(sc.TopHashtags) == 0 || len(sc.ThemeKeywords) == 0 {
			t.Fatalf("cluster %s missing tag profile", sc.Name)
		}
		if sc.RelevanceScore <= 0 || sc.RelevanceScore > 1 {
			t.Fatalf("cluster %s relevance %v out of range", sc.Name, sc.RelevanceScore)
		}
	}
}

func TestKeywordAutoK(t *testing.T) {
	leads := leadsWithTags(map[string]int{"a": 10, "b": 9, "c": 8, "d": 2})

	out, err := NewKeyword().Cluster(context.Background(), leads, Params{})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if len(out.SubClusters) < minAutoK {
		t.Fatalf("auto-K produced %d clusters, want at least %d", len(out.SubClusters), minAutoK)
	}
	if out.CoveredLeads != len(leads) {
		t.Fatalf("covered = %d, want all %d (stragglers fold into best cluster)", out.CoveredLeads, len(leads))
	}
}

func TestKeywordMaxLeadsCap(t *testing.T) {
	var leads []Lead
	for i := 0; i < 3000; i++ {
		leads = append(leads, Lead{ID: fmt.Sprintf("l%d", i), Hashtags: []string{fmt.Sprintf("tag%d", i%4)}})
	}

	out, err := NewKeyword().Cluster(context.Background(), leads, Params{K: 4})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if out.CoveredLeads > DefaultMaxLeads {
		t.Fatalf("covered %d leads, cap is %d", out.CoveredLeads, DefaultMaxLeads)
	}

	out, err = NewKeyword().Cluster(context.Background(), leads, Params{K: 4, MaxLeads: 500})
	if err != nil {
		t.Fatalf("Cluster with explicit cap: %v", err)
	}
	if out.CoveredLeads > 500 {
		t.Fatalf("covered %d leads, explicit cap is 500", out.CoveredLeads)
	}
}

func TestKeywordInsufficientData(t *testing.T) {
	for _, leads := range [][]Lead{nil, {{ID: "only", Hashtags: []string{"x"}}}} {
		out, err := NewKeyword().Cluster(context.Background(), leads, Params{})
		if err != nil {
			t.Fatalf("Cluster: %v", err)
		}
		if !out.Insufficient {
			t.Fatalf("%d leads must yield insufficient-data, got %+v", len(leads), out)
		}
		if len(out.SubClusters) != 0 {
			t.Fatalf("insufficient outcome carries clusters: %+v", out.SubClusters)
		}
	}
}

func TestKeywordRejectsBadK(t *testing.T) {
	leads := leadsWithTags(map[string]int{"a": 3, "b": 3})

	_, err := NewKeyword().Cluster(context.Background(), leads, Params{K: -1})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("negative K: err = %v, want invalid argument", err)
	}
	_, err = NewKeyword().Cluster(context.Background(), leads, Params{K: 100})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("oversized K: err = %v, want invalid argument", err)
	}
}

func TestKeywordDeterministic(t *testing.T) {
	leads := leadsWithTags(map[string]int{"a": 7, "b": 6, "c": 5})

	first, err := NewKeyword().Cluster(context.Background(), leads, Params{})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := NewKeyword().Cluster(context.Background(), leads, Params{})
		if err != nil {
			t.Fatalf("Cluster: %v", err)
		}
		if len(again.SubClusters) != len(first.SubClusters) {
			t.Fatalf("nondeterministic cluster count: %d vs %d", len(again.SubClusters), len(first.SubClusters))
		}
		for j := range again.SubClusters {
			if again.SubClusters[j].Name != first.SubClusters[j].Name {
				t.Fatalf("nondeterministic order at %d: %s vs %s", j, again.SubClusters[j].Name, first.SubClusters[j].Name)
			}
		}
	}
}
