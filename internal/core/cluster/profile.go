package cluster

import "sort"

const (
	topHashtagCount   = 5
	themeKeywordCount = 3
)

// tagProfile summarizes a member set: hashtags ranked by member count
func tagProfile(members []Lead) []string {
	counts := make(map[string]int)
	for _, m := range members {
		seen := make(map[string]struct{}, len(m.Hashtags))
		for _, h := range m.Hashtags {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			counts[h]++
		}
	}
	ranked := make([]string, 0, len(counts))
	for h := range counts {
		ranked = append(ranked, h)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

// buildSubCluster assembles the common output shape from a member set.
// Name defaults to the strongest shared hashtag when none is supplied
func buildSubCluster(name string, members []Lead, relevance float64) SubCluster {
	ranked := tagProfile(members)

	top := ranked
	if len(top) > topHashtagCount {
		top = top[:topHashtagCount]
	}
	theme := ranked
	if len(theme) > themeKeywordCount {
		theme = theme[:themeKeywordCount]
	}
	if name == "" {
		if len(ranked) > 0 {
			name = ranked[0]
		} else {
			name = "unlabeled"
		}
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)

	return SubCluster{
		Name:           name,
		MemberIDs:      ids,
		MemberCount:    len(members),
		TopHashtags:    append([]string(nil), top...),
		ThemeKeywords:  append([]string(nil), theme...),
		RelevanceScore: relevance,
	}
}

// overlapRatio is |lead tags ∩ cluster top tags| / |lead tags|
func overlapRatio(tags []string, topSet map[string]struct{}) float64 {
	if len(tags) == 0 {
		return 0
	}
	hits := 0
	for _, t := range tags {
		if _, ok := topSet[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(tags))
}
