// Package domain holds DTOs for the niche analysis HTTP and service contracts
package domain

// ValidateInput asks whether a niche has enough organic audience signal
type ValidateInput struct {
	NicheName string   `json:"niche_name" validate:"required,min=1,max=128" example:"fitness coaches"`
	Seeds     []string `json:"seeds" validate:"required,min=1,max=20,dive,min=1,max=64" example:"fitness"`
	Geography string   `json:"geography,omitempty" validate:"omitempty,max=64" example:"br"`

	// Optional overrides; zero values take campaign defaults
	MaxLeads int `json:"max_leads,omitempty" validate:"omitempty,min=1,max=500000" example:"100000"`
}

// HashtagView is one classified hashtag with its display label
type HashtagView struct {
	Hashtag     string `json:"hashtag" example:"marketing_digital"`
	Display     string `json:"display" example:"Marketing Digital"`
	Frequency   int    `json:"frequency" example:"120"`
	UniqueLeads int    `json:"unique_leads" example:"90"`
}

// ThresholdsView echoes the derived cutoffs for transparency
type ThresholdsView struct {
	MinDocumentFrequency int     `json:"min_document_frequency" example:"50"`
	P90                  float64 `json:"p90" example:"120"`
	P50                  float64 `json:"p50" example:"100"`
	Root                 float64 `json:"root" example:"120"`
	Candidate            float64 `json:"candidate" example:"100"`
}

// ValidateResp is the full classification outcome
type ValidateResp struct {
	RunID                 string         `json:"run_id" example:"01J9ZK3GJ0V4X6Q8RT5M2YDABC"`
	NicheName             string         `json:"niche_name" example:"fitness coaches"`
	Tier                  string         `json:"tier" example:"moderate"`
	RootHashtags          []HashtagView  `json:"root_hashtags"`
	CandidateHashtags     []HashtagView  `json:"candidate_hashtags"`
	RelatedHashtagCount   int            `json:"related_hashtag_count" example:"340"`
	EstimatedProfileCount int            `json:"estimated_profile_count" example:"1800"`
	ContactRate           float64        `json:"contact_rate" example:"0.41"`
	ProfileDeficit        int            `json:"profile_deficit,omitempty" example:"1200"`
	Suggestions           []string       `json:"suggestions,omitempty" example:"marketing_tips"`
	SuitableForCampaign   bool           `json:"suitable_for_campaign" example:"true"`
	TotalLeads            int            `json:"total_leads" example:"10000"`
	Thresholds            ThresholdsView `json:"thresholds"`
}

// AnalyzeInput runs the full pipeline including co-occurrence
type AnalyzeInput struct {
	ValidateInput

	TopK     int `json:"top_k,omitempty" validate:"omitempty,min=2,max=500" example:"100"`
	TopPairs int `json:"top_pairs,omitempty" validate:"omitempty,min=1,max=200" example:"20"`
}

// PairView is one co-occurring hashtag pair
type PairView struct {
	A     string `json:"a" example:"fitness"`
	B     string `json:"b" example:"nutrition"`
	Count int    `json:"count" example:"42"`
}

// AnalyzeResp extends validation with co-occurrence pairs
type AnalyzeResp struct {
	ValidateResp

	CoOccurrence []PairView `json:"co_occurrence"`
}
