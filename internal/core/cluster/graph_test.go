package cluster

import (
	"context"
	"fmt"
	"testing"

	perr "nichelens/internal/platform/errors"
)

// fakeFinder serves neighbors from a static adjacency map
type fakeFinder struct {
	edges map[string][]Neighbor
	err   error
	calls int
}

func (f *fakeFinder) Neighbors(_ context.Context, leadID string, limit int, minSim float64) ([]Neighbor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := f.edges[leadID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// component builds leads l<base>..l<base+n-1> all linked to their successor
func component(f *fakeFinder, tag string, base, n int, sim float64) []Lead {
	var leads []Lead
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("l%d", base+i)
		leads = append(leads, Lead{ID: id, Hashtags: []string{tag}})
		if i+1 < n {
			next := fmt.Sprintf("l%d", base+i+1)
			f.edges[id] = append(f.edges[id], Neighbor{ID: next, Similarity: sim})
		}
	}
	return leads
}

func TestGraphExtractsComponents(t *testing.T) {
	f := &fakeFinder{edges: map[string][]Neighbor{}}
	var leads []Lead
	leads = append(leads, component(f, "fitness", 0, 15, 0.9)...)
	leads = append(leads, component(f, "crypto", 100, 12, 0.8)...)
	leads = append(leads, component(f, "tiny", 200, 3, 0.95)...) // below size floor

	out, err := NewGraph(f).Cluster(context.Background(), leads, Params{})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if len(out.SubClusters) != 2 {
		t.Fatalf("clusters = %+v, want 2 (fragment filtered)", out.SubClusters)
	}
	if out.SubClusters[0].Name != "fitness" || out.SubClusters[0].MemberCount != 15 {
		t.Fatalf("first cluster = %+v, want fitness with 15", out.SubClusters[0])
	}
	if out.SubClusters[1].Name != "crypto" || out.SubClusters[1].MemberCount != 12 {
		t.Fatalf("second cluster = %+v, want crypto with 12", out.SubClusters[1])
	}
	if out.CoveredLeads != 27 {
		t.Fatalf("covered = %d, want 27", out.CoveredLeads)
	}
	// relevance mirrors edge similarity
	if r := out.SubClusters[0].RelevanceScore; r < 0.89 || r > 0.91 {
		t.Fatalf("fitness relevance = %v, want ~0.9", r)
	}
}

func TestGraphIgnoresSubThresholdAndOutOfScopeEdges(t *testing.T) {
	f := &fakeFinder{edges: map[string][]Neighbor{}}
	var leads []Lead
	leads = append(leads, component(f, "a", 0, 12, 0.9)...)
	leads = append(leads, component(f, "b", 100, 12, 0.9)...)
	// weak bridge below the 0.72 threshold must not merge the components
	f.edges["l0"] = append(f.edges["l0"], Neighbor{ID: "l100", Similarity: 0.5})
	// edge to a lead outside the scoped set is dropped
	f.edges["l1"] = append(f.edges["l1"], Neighbor{ID: "stranger", Similarity: 0.99})

	out, err := NewGraph(f).Cluster(context.Background(), leads, Params{})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if len(out.SubClusters) != 2 {
		t.Fatalf("clusters = %d, want 2 separate components", len(out.SubClusters))
	}
}

func TestGraphMinClusterSizeOverride(t *testing.T) {
	f := &fakeFinder{edges: map[string][]Neighbor{}}
	leads := component(f, "small", 0, 4, 0.9)

	out, err := NewGraph(f).Cluster(context.Background(), leads, Params{MinClusterSize: 3})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if len(out.SubClusters) != 1 || out.SubClusters[0].MemberCount != 4 {
		t.Fatalf("clusters = %+v, want one of 4", out.SubClusters)
	}
}

func TestGraphNeighborCapHonored(t *testing.T) {
	f := &fakeFinder{edges: map[string][]Neighbor{}}
	leads := component(f, "a", 0, 12, 0.9)

	_, err := NewGraph(f).Cluster(context.Background(), leads, Params{NeighborCap: 5})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if f.calls != 12 {
		t.Fatalf("finder calls = %d, want one per lead", f.calls)
	}
}

func TestGraphIndexFailurePropagates(t *testing.T) {
	f := &fakeFinder{err: perr.Unavailablef("index down")}
	leads := []Lead{{ID: "a"}, {ID: "b"}}

	_, err := NewGraph(f).Cluster(context.Background(), leads, Params{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable to propagate", err)
	}

	_, err = NewGraph(nil).Cluster(context.Background(), leads, Params{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("nil finder err = %v, want unavailable", err)
	}
}

func TestGraphInsufficientData(t *testing.T) {
	f := &fakeFinder{edges: map[string][]Neighbor{}}
	out, err := NewGraph(f).Cluster(context.Background(), []Lead{{ID: "solo"}}, Params{})
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if !out.Insufficient {
		t.Fatalf("single lead must yield insufficient-data, got %+v", out)
	}
	if f.calls != 0 {
		t.Fatal("no neighbor lookups should run for insufficient data")
	}
}
