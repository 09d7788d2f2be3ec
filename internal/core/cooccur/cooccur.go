// Package cooccur surfaces hashtag pairs that frequently appear together on
// the same lead. A full-vocabulary pairwise scan is quadratic in vocabulary
// size and infeasible past ~10^5 tags, so the analysis is restricted to the
// top-K most frequent tags, bounding cost at O(leads * K^2) regardless of
// vocabulary
package cooccur

import (
	"sort"

	"nichelens/internal/core/freq"
)

// DefaultTopK caps the in-window vocabulary considered for pairing
const DefaultTopK = 100

// DefaultTopN caps how many pairs are returned
const DefaultTopN = 20

// Pair is an unordered hashtag pair with A < B lexically
type Pair struct {
	A     string
	B     string
	Count int
}

// Options tunes the bounded scan. Zero values take the defaults
type Options struct {
	TopK int
	TopN int
}

// Result carries the ranked pairs plus the pair-increment iteration count,
// which callers can assert stays bounded by leads*K^2
type Result struct {
	Pairs      []Pair
	Iterations int64
}

type pairKey struct{ a, b string }

// TopPairs counts co-occurrences of the table's top-K tags across per-lead
// hashtag sets and returns the top-N pairs by count
func TopPairs(leadTags [][]string, table freq.Table, opts Options) Result {
	k := opts.TopK
	if k <= 0 {
		k = DefaultTopK
	}
	n := opts.TopN
	if n <= 0 {
		n = DefaultTopN
	}

	top := topKSet(table, k)
	if len(top) < 2 {
		return Result{}
	}

	counts := make(map[pairKey]int)
	var iterations int64
	scratch := make([]string, 0, k)

	for _, tags := range leadTags {
		scratch = scratch[:0]
		for _, tag := range tags {
			if _, ok := top[tag]; ok {
				scratch = append(scratch, tag)
			}
		}
		if len(scratch) < 2 {
			continue
		}
		sort.Strings(scratch)
		for i := 0; i < len(scratch); i++ {
			for j := i + 1; j < len(scratch); j++ {
				counts[pairKey{scratch[i], scratch[j]}]++
				iterations++
			}
		}
	}

	pairs := make([]Pair, 0, len(counts))
	for k, c := range counts {
		pairs = append(pairs, Pair{A: k.a, B: k.b, Count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return Result{Pairs: pairs, Iterations: iterations}
}

// topKSet picks the k most frequent tags, breaking ties lexically for
// deterministic output
func topKSet(table freq.Table, k int) map[string]struct{} {
	type tagCount struct {
		tag   string
		count int
	}
	all := make([]tagCount, 0, len(table))
	for tag, f := range table {
		all = append(all, tagCount{tag: tag, count: f.Total})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].tag < all[j].tag
	})
	if len(all) > k {
		all = all[:k]
	}
	set := make(map[string]struct{}, len(all))
	for _, tc := range all {
		set[tc.tag] = struct{}{}
	}
	return set
}
