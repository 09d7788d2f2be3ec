// Package domain holds DTOs for the clustering HTTP and service contracts
package domain

// ExecuteInput requests one clustering run over the scoped corpus
type ExecuteInput struct {
	Strategy  string   `json:"strategy" validate:"required,oneof=keyword vector graph" example:"keyword"`
	NicheName string   `json:"niche_name,omitempty" validate:"omitempty,max=128" example:"fitness coaches"`
	Seeds     []string `json:"seeds,omitempty" validate:"omitempty,max=20,dive,min=1,max=64" example:"fitness"`
	Geography string   `json:"geography,omitempty" validate:"omitempty,max=64" example:"br"`
	LeadIDs   []string `json:"lead_ids,omitempty" validate:"omitempty,max=2000,dive,uuid4" example:"8b9cf0f4-8d26-4e0a-9b3f-2f6d1c1f0a11"`

	// Tuning; zero values take strategy defaults
	K                   int     `json:"k,omitempty" validate:"omitempty,min=0,max=100" example:"4"`
	MaxLeads            int     `json:"max_leads,omitempty" validate:"omitempty,min=2,max=2000" example:"2000"`
	MinClusterSize      int     `json:"min_cluster_size,omitempty" validate:"omitempty,min=1,max=500" example:"10"`
	NeighborCap         int     `json:"neighbor_cap,omitempty" validate:"omitempty,min=1,max=200" example:"30"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" validate:"omitempty,gt=0,lte=1" example:"0.72"`
}

// SubClusterView is the common per-cluster output shape
type SubClusterView struct {
	Name           string   `json:"name" example:"crossfit"`
	Display        string   `json:"display" example:"CrossFit"`
	MemberIDs      []string `json:"member_ids"`
	MemberCount    int      `json:"member_count" example:"42"`
	TopHashtags    []string `json:"top_hashtags" example:"crossfit"`
	ThemeKeywords  []string `json:"theme_keywords" example:"crossfit"`
	RelevanceScore float64  `json:"relevance_score" example:"0.87"`
}

// ExecuteResp is the outcome of one clustering run. InsufficientData marks
// the fewer-than-2-eligible-leads case; it is not an error
type ExecuteResp struct {
	RunID            string           `json:"run_id" example:"01J9ZK3GJ0V4X6Q8RT5M2YDABC"`
	Strategy         string           `json:"strategy" example:"keyword"`
	InsufficientData bool             `json:"insufficient_data" example:"false"`
	SubClusters      []SubClusterView `json:"sub_clusters"`
	CoveredLeads     int              `json:"covered_leads" example:"1800"`
	EligibleLeads    int              `json:"eligible_leads" example:"1950"`
}
