// Package cluster partitions matching leads into thematic sub-clusters.
// Three interchangeable strategies share one input shape and one output
// shape; strategy choice trades accuracy against dependency weight
package cluster

import (
	"context"
	"sort"

	perr "nichelens/internal/platform/errors"
)

// Tuned defaults; zero Params fields fall back to these
const (
	DefaultMaxLeads            = 2000
	DefaultMinClusterSize      = 10
	DefaultNeighborCap         = 30
	DefaultSimilarityThreshold = 0.72

	minAutoK = 2
	maxAutoK = 8
)

// Lead is the clustering view of one lead. Vector is nil unless an embedding
// was fetched for it
type Lead struct {
	ID       string
	Hashtags []string
	Vector   []float32
}

// Params tunes a clustering run. K of zero means auto-select
type Params struct {
	K                   int
	MaxLeads            int
	MinClusterSize      int
	NeighborCap         int
	SimilarityThreshold float64
}

func (p Params) withDefaults() Params {
	if p.MaxLeads <= 0 {
		p.MaxLeads = DefaultMaxLeads
	}
	if p.MinClusterSize <= 0 {
		p.MinClusterSize = DefaultMinClusterSize
	}
	if p.NeighborCap <= 0 {
		p.NeighborCap = DefaultNeighborCap
	}
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return p
}

// SubCluster is the common per-cluster output shape
type SubCluster struct {
	Name           string
	MemberIDs      []string
	MemberCount    int
	TopHashtags    []string
	ThemeKeywords  []string
	RelevanceScore float64
}

// Outcome is the result of one clustering run. Insufficient marks the
// fewer-than-2-eligible-leads case, which is a normal business outcome
type Outcome struct {
	Strategy     string
	SubClusters  []SubCluster
	CoveredLeads int
	Insufficient bool
}

// Strategy is the interchangeable clustering contract
type Strategy interface {
	Name() string
	Cluster(ctx context.Context, leads []Lead, p Params) (Outcome, error)
}

// Strategy names accepted on the wire
const (
	StrategyKeyword = "keyword"
	StrategyVector  = "vector"
	StrategyGraph   = "graph"
)

// ValidStrategy reports whether name is a known strategy
func ValidStrategy(name string) bool {
	switch name {
	case StrategyKeyword, StrategyVector, StrategyGraph:
		return true
	}
	return false
}

// prepare applies the hard lead cap and detects the insufficient-data case.
// Returns the capped slice, resolved params, and an Outcome to return as-is
// when eligible leads are below the clustering minimum
func prepare(name string, leads []Lead, p Params) ([]Lead, Params, *Outcome) {
	p = p.withDefaults()
	if len(leads) > p.MaxLeads {
		leads = leads[:p.MaxLeads]
	}
	if len(leads) < 2 {
		return nil, p, &Outcome{Strategy: name, Insufficient: true}
	}
	return leads, p, nil
}

// validateK rejects nonsensical explicit K values
func validateK(k, n int) error {
	if k < 0 {
		return perr.InvalidArgf("cluster count must not be negative, got %d", k)
	}
	if k > n {
		return perr.InvalidArgf("cluster count %d exceeds eligible lead count %d", k, n)
	}
	return nil
}

// sortClusters orders sub-clusters by size descending with a name tiebreak
// so output is deterministic run to run
func sortClusters(cs []SubCluster) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].MemberCount != cs[j].MemberCount {
			return cs[i].MemberCount > cs[j].MemberCount
		}
		return cs[i].Name < cs[j].Name
	})
}
