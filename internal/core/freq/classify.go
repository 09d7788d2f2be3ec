package freq

import (
	"sort"
	"strings"
)

// Tier is the four-level niche strength scale
type Tier string

const (
	TierIdeal       Tier = "ideal"
	TierModerate    Tier = "moderate"
	TierWeak        Tier = "weak"
	TierNonexistent Tier = "nonexistent"
)

// TierRule is the pair of floors a tier requires. Both must hold
type TierRule struct {
	MinRootHashtags int
	MinProfiles     int
}

// SuitabilityRule holds the per-campaign minimums for suitable_for_campaign
type SuitabilityRule struct {
	MinRelatedHashtags int
	MinRootHashtags    int
	MinProfiles        int
}

// ClassifyConfig bundles the tuned tier floors and suitability minimums.
// Overridable per deployment, defaults preserved for behavioral compatibility
type ClassifyConfig struct {
	Ideal          TierRule
	Moderate       TierRule
	Weak           TierRule
	Suitability    SuitabilityRule
	MaxSuggestions int
}

// DefaultClassifyConfig returns the production-tuned floors
func DefaultClassifyConfig() ClassifyConfig {
	return ClassifyConfig{
		Ideal:    TierRule{MinRootHashtags: 5, MinProfiles: 3000},
		Moderate: TierRule{MinRootHashtags: 3, MinProfiles: 1500},
		Weak:     TierRule{MinRootHashtags: 2, MinProfiles: 800},
		Suitability: SuitabilityRule{
			MinRelatedHashtags: 300,
			MinRootHashtags:    3,
			MinProfiles:        1000,
		},
		MaxSuggestions: 5,
	}
}

// HashtagStat is the classifier's per-tag view
type HashtagStat struct {
	Hashtag     string
	Frequency   int
	UniqueLeads int
}

// Classification is the full outcome of one seed-set classification
type Classification struct {
	Tier                    Tier
	RelatedCount            int
	RootHashtags            []HashtagStat
	CandidateHashtags       []HashtagStat
	EstimatedProfileCount   int
	ContactableProfileCount int
	ProfileDeficit          int
	Suggestions             []string
	SuitableForCampaign     bool
}

// ContactRate is the contactable share of the estimated profile pool
func (c Classification) ContactRate() float64 {
	if c.EstimatedProfileCount == 0 {
		return 0
	}
	return float64(c.ContactableProfileCount) / float64(c.EstimatedProfileCount)
}

// InsufficientData is the classification for a run where no hashtag cleared
// the min-document-frequency floor. Thresholds derived from an empty
// distribution cannot separate roots from noise, so raw match counts never
// qualify a tier; the deficit and collection suggestions still come back
func InsufficientData(seeds []string, cfg ClassifyConfig) Classification {
	return Classification{
		Tier:           TierNonexistent,
		ProfileDeficit: cfg.Weak.MinProfiles,
		Suggestions:    syntheticSuggestions(loweredSeeds(seeds), cfg.MaxSuggestions),
	}
}

func loweredSeeds(seeds []string) []string {
	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Classify runs seed matching and four-tier strength classification against
// the unfiltered global table. Matching is substring against the full
// canonical hashtag text, so seed "marketing" catches "digital_marketing".
// Zero matches produce a nonexistent-tier result, never an error
func Classify(seeds []string, global Table, th Thresholds, cfg ClassifyConfig) Classification {
	c := Classification{Tier: TierNonexistent}

	lowered := loweredSeeds(seeds)
	if len(lowered) == 0 || len(global) == 0 {
		c.Suggestions = syntheticSuggestions(lowered, cfg.MaxSuggestions)
		c.ProfileDeficit = cfg.Weak.MinProfiles
		return c
	}

	var related []HashtagStat
	for tag, f := range global {
		for _, seed := range lowered {
			if strings.Contains(tag, seed) {
				related = append(related, HashtagStat{
					Hashtag:     tag,
					Frequency:   f.Total,
					UniqueLeads: f.UniqueLeads,
				})
				c.ContactableProfileCount += f.ContactableLeads
				break
			}
		}
	}
	c.RelatedCount = len(related)

	for _, r := range related {
		c.EstimatedProfileCount += r.UniqueLeads
		switch {
		case float64(r.Frequency) >= th.Root:
			c.RootHashtags = append(c.RootHashtags, r)
		case float64(r.Frequency) >= th.Candidate:
			c.CandidateHashtags = append(c.CandidateHashtags, r)
		}
	}
	sort.Slice(c.RootHashtags, func(i, j int) bool {
		if c.RootHashtags[i].Frequency != c.RootHashtags[j].Frequency {
			return c.RootHashtags[i].Frequency > c.RootHashtags[j].Frequency
		}
		return c.RootHashtags[i].Hashtag < c.RootHashtags[j].Hashtag
	})
	sort.Slice(c.CandidateHashtags, func(i, j int) bool {
		if c.CandidateHashtags[i].Frequency != c.CandidateHashtags[j].Frequency {
			return c.CandidateHashtags[i].Frequency > c.CandidateHashtags[j].Frequency
		}
		return c.CandidateHashtags[i].Hashtag < c.CandidateHashtags[j].Hashtag
	})

	roots := len(c.RootHashtags)
	profiles := c.EstimatedProfileCount
	switch {
	case roots >= cfg.Ideal.MinRootHashtags && profiles >= cfg.Ideal.MinProfiles:
		c.Tier = TierIdeal
	case roots >= cfg.Moderate.MinRootHashtags && profiles >= cfg.Moderate.MinProfiles:
		c.Tier = TierModerate
	case roots >= cfg.Weak.MinRootHashtags && profiles >= cfg.Weak.MinProfiles:
		c.Tier = TierWeak
	default:
		c.Tier = TierNonexistent
	}

	if c.Tier != TierIdeal {
		c.ProfileDeficit = profileDeficit(c.Tier, roots, profiles, cfg)
		c.Suggestions = suggestions(c.CandidateHashtags, lowered, cfg.MaxSuggestions)
	}

	c.SuitableForCampaign = c.RelatedCount >= cfg.Suitability.MinRelatedHashtags &&
		roots >= cfg.Suitability.MinRootHashtags &&
		profiles >= cfg.Suitability.MinProfiles

	return c
}

// profileDeficit reports how many profiles the niche is short of the next
// tier up, taking the larger of the direct shortfall and the shortfall
// implied by the missing root hashtags at the observed profiles-per-root rate
func profileDeficit(current Tier, roots, profiles int, cfg ClassifyConfig) int {
	var next TierRule
	switch current {
	case TierModerate:
		next = cfg.Ideal
	case TierWeak:
		next = cfg.Moderate
	default:
		next = cfg.Weak
	}

	direct := next.MinProfiles - profiles
	if direct < 0 {
		direct = 0
	}

	missingRoots := next.MinRootHashtags - roots
	if missingRoots < 0 {
		missingRoots = 0
	}
	denom := roots
	if denom < 1 {
		denom = 1
	}
	implied := missingRoots * (profiles / denom)

	if implied > direct {
		return implied
	}
	return direct
}

// suggestions prefers real almost-qualified candidates, falling back to
// synthetic seed-derived tags when none survived the thresholds
func suggestions(candidates []HashtagStat, seeds []string, max int) []string {
	if max <= 0 {
		max = 5
	}
	if len(candidates) > 0 {
		n := len(candidates)
		if n > max {
			n = max
		}
		out := make([]string, 0, n)
		for _, c := range candidates[:n] {
			out = append(out, c.Hashtag)
		}
		return out
	}
	return syntheticSuggestions(seeds, max)
}

// common expansion suffixes used when no observed candidate exists yet
var suggestionSuffixes = []string{"", "_tips", "_digital", "_online", "_community"}

func syntheticSuggestions(seeds []string, max int) []string {
	if max <= 0 {
		max = 5
	}
	out := make([]string, 0, max)
	for _, suffix := range suggestionSuffixes {
		for _, seed := range seeds {
			out = append(out, seed+suffix)
			if len(out) == max {
				return out
			}
		}
	}
	return out
}
