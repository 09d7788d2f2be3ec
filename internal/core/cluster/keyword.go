package cluster

import (
	"context"
	"sort"
)

// Keyword groups leads by shared dominant hashtag signatures. It needs no
// external dependency, making it the fallback when the embedding index is
// down
type Keyword struct{}

// NewKeyword constructs the keyword/frequency strategy
func NewKeyword() *Keyword { return &Keyword{} }

func (*Keyword) Name() string { return StrategyKeyword }

// Cluster groups by each lead's globally most frequent hashtag, picks K by
// cohesion when unset, and folds the remaining signature groups into their
// best-overlapping cluster
func (s *Keyword) Cluster(_ context.Context, leads []Lead, p Params) (Outcome, error) {
	leads, p, early := prepare(s.Name(), leads, p)
	if early != nil {
		return *early, nil
	}
	if err := validateK(p.K, len(leads)); err != nil {
		return Outcome{}, err
	}

	// global tag counts over the capped corpus slice
	global := make(map[string]int)
	for _, l := range leads {
		for _, h := range l.Hashtags {
			global[h]++
		}
	}

	// signature = the lead's globally strongest tag
	groups := make(map[string][]Lead)
	for _, l := range leads {
		sig := signature(l, global)
		if sig == "" {
			continue
		}
		groups[sig] = append(groups[sig], l)
	}
	if len(groups) == 0 {
		return Outcome{Strategy: s.Name(), Insufficient: true}, nil
	}

	sigs := make([]string, 0, len(groups))
	for sig := range groups {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool {
		if len(groups[sigs[i]]) != len(groups[sigs[j]]) {
			return len(groups[sigs[i]]) > len(groups[sigs[j]])
		}
		return sigs[i] < sigs[j]
	})

	k := p.K
	if k == 0 {
		k = autoK(sigs, groups)
	}
	if k > len(sigs) {
		k = len(sigs)
	}

	assigned, cohesions := assign(sigs[:k], groups)

	out := Outcome{Strategy: s.Name()}
	for _, sig := range sigs[:k] {
		members := assigned[sig]
		if len(members) == 0 {
			continue
		}
		sc := buildSubCluster(sig, members, cohesions[sig])
		out.SubClusters = append(out.SubClusters, sc)
		out.CoveredLeads += sc.MemberCount
	}
	sortClusters(out.SubClusters)
	return out, nil
}

// signature picks the lead's tag with the highest global count, tie broken
// lexically for determinism
func signature(l Lead, global map[string]int) string {
	best := ""
	bestN := -1
	for _, h := range l.Hashtags {
		n := global[h]
		if n > bestN || (n == bestN && h < best) {
			best, bestN = h, n
		}
	}
	return best
}

// autoK evaluates mean member-overlap cohesion across a small candidate
// range and picks the k that maximizes it, preferring smaller k on ties
func autoK(sigs []string, groups map[string][]Lead) int {
	hi := maxAutoK
	if len(sigs) < hi {
		hi = len(sigs)
	}
	if hi < minAutoK {
		return len(sigs)
	}

	bestK, bestScore := minAutoK, -1.0
	for k := minAutoK; k <= hi; k++ {
		_, cohesions := assign(sigs[:k], groups)
		var sum float64
		for _, c := range cohesions {
			sum += c
		}
		score := sum / float64(k)
		if score > bestScore {
			bestK, bestScore = k, score
		}
	}
	return bestK
}

// assign folds every signature group into the chosen cluster it overlaps
// most with (its own when chosen; the largest as a last resort) and returns
// per-cluster mean overlap cohesion
func assign(chosen []string, groups map[string][]Lead) (map[string][]Lead, map[string]float64) {
	chosenSet := make(map[string]struct{}, len(chosen))
	for _, sig := range chosen {
		chosenSet[sig] = struct{}{}
	}

	// top-tag sets per chosen cluster seed its own signature group profile
	topSets := make(map[string]map[string]struct{}, len(chosen))
	for _, sig := range chosen {
		set := make(map[string]struct{})
		ranked := tagProfile(groups[sig])
		if len(ranked) > topHashtagCount {
			ranked = ranked[:topHashtagCount]
		}
		for _, t := range ranked {
			set[t] = struct{}{}
		}
		set[sig] = struct{}{}
		topSets[sig] = set
	}

	assigned := make(map[string][]Lead, len(chosen))
	for sig, members := range groups {
		target := sig
		if _, ok := chosenSet[sig]; !ok {
			target = bestTarget(members, chosen, topSets)
		}
		assigned[target] = append(assigned[target], members...)
	}

	cohesions := make(map[string]float64, len(chosen))
	for _, sig := range chosen {
		members := assigned[sig]
		if len(members) == 0 {
			continue
		}
		var sum float64
		for _, m := range members {
			sum += overlapRatio(m.Hashtags, topSets[sig])
		}
		cohesions[sig] = sum / float64(len(members))
	}
	return assigned, cohesions
}

func bestTarget(members []Lead, chosen []string, topSets map[string]map[string]struct{}) string {
	best := chosen[0] // largest cluster is the fallback
	bestScore := -1.0
	for _, sig := range chosen {
		var sum float64
		for _, m := range members {
			sum += overlapRatio(m.Hashtags, topSets[sig])
		}
		score := sum / float64(len(members))
		if score > bestScore {
			best, bestScore = sig, score
		}
	}
	return best
}
