package cluster

import (
	"context"
	"fmt"
	"sort"

	perr "nichelens/internal/platform/errors"
)

// Neighbor is one approximate-neighbor hit for a lead
type Neighbor struct {
	ID         string
	Similarity float64
}

// NeighborFinder is the approximate-neighbor lookup port backed by the
// external embedding index
type NeighborFinder interface {
	Neighbors(ctx context.Context, leadID string, limit int, minSimilarity float64) ([]Neighbor, error)
}

// Graph builds a similarity graph via approximate-neighbor lookup and
// extracts connected components as clusters. K emerges from structure; a
// minimum-cluster-size filter discards fragments
type Graph struct {
	finder NeighborFinder
}

// NewGraph constructs the graph strategy over a neighbor index
func NewGraph(finder NeighborFinder) *Graph { return &Graph{finder: finder} }

func (*Graph) Name() string { return StrategyGraph }

// Cluster queries each lead's neighbors (capped, above the similarity
// threshold), unions edges between in-scope leads, and emits each surviving
// component with its mean edge similarity as the relevance score. Index
// failures propagate so the caller can fall back to the keyword strategy
func (s *Graph) Cluster(ctx context.Context, leads []Lead, p Params) (Outcome, error) {
	if s.finder == nil {
		return Outcome{}, perr.Unavailablef("neighbor index not configured")
	}
	leads, p, early := prepare(s.Name(), leads, p)
	if early != nil {
		return *early, nil
	}

	index := make(map[string]int, len(leads))
	for i, l := range leads {
		index[l.ID] = i
	}

	uf := newUnionFind(len(leads))
	edgeSim := make(map[[2]int]float64)

	for i, l := range leads {
		if err := ctx.Err(); err != nil {
			return Outcome{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "neighbor scan cancelled")
		}
		neighbors, err := s.finder.Neighbors(ctx, l.ID, p.NeighborCap, p.SimilarityThreshold)
		if err != nil {
			if _, ok := perr.As(err); ok {
				return Outcome{}, err
			}
			return Outcome{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "neighbor lookup for lead %s", l.ID)
		}
		for _, nb := range neighbors {
			j, ok := index[nb.ID]
			if !ok || j == i {
				continue // out of scope or self edge
			}
			if nb.Similarity < p.SimilarityThreshold {
				continue
			}
			uf.union(i, j)
			key := [2]int{i, j}
			if j < i {
				key = [2]int{j, i}
			}
			if nb.Similarity > edgeSim[key] {
				edgeSim[key] = nb.Similarity
			}
		}
	}

	components := make(map[int][]int)
	for i := range leads {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	// mean edge similarity per component
	simSum := make(map[int]float64)
	simCount := make(map[int]int)
	for key, sim := range edgeSim {
		root := uf.find(key[0])
		simSum[root] += sim
		simCount[root]++
	}

	roots := make([]int, 0, len(components))
	for root := range components {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	out := Outcome{Strategy: s.Name()}
	for _, root := range roots {
		idxs := components[root]
		if len(idxs) < p.MinClusterSize {
			continue
		}
		members := make([]Lead, 0, len(idxs))
		for _, i := range idxs {
			members = append(members, leads[i])
		}
		relevance := 0.0
		if n := simCount[root]; n > 0 {
			relevance = simSum[root] / float64(n)
		}
		sc := buildSubCluster("", members, relevance)
		out.SubClusters = append(out.SubClusters, sc)
		out.CoveredLeads += sc.MemberCount
	}
	sortClusters(out.SubClusters)

	// dedupe names when multiple components share a dominant tag
	seen := make(map[string]int)
	for i := range out.SubClusters {
		name := out.SubClusters[i].Name
		seen[name]++
		if seen[name] > 1 {
			out.SubClusters[i].Name = fmt.Sprintf("%s_%d", name, seen[name])
		}
	}
	return out, nil
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}
