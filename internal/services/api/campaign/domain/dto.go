package domain

import "time"

// CreateInput opens a new campaign in draft
type CreateInput struct {
	Name      string   `json:"name" validate:"required,min=1,max=128" example:"fit coaches br q4"`
	NicheName string   `json:"niche_name" validate:"required,min=1,max=128" example:"fitness coaches"`
	Seeds     []string `json:"seeds" validate:"required,min=1,max=20,dive,min=1,max=64" example:"fitness"`
	Geography string   `json:"geography,omitempty" validate:"omitempty,max=64" example:"br"`
}

// StatusResp is the campaign status view plus what the caller may do next
type StatusResp struct {
	ID                 string     `json:"id" example:"8b9cf0f4-8d26-4e0a-9b3f-2f6d1c1f0a11"`
	Name               string     `json:"name" example:"fit coaches br q4"`
	NicheName          string     `json:"niche_name" example:"fitness coaches"`
	Status             string     `json:"status" example:"draft"`
	Editable           bool       `json:"editable" example:"true"`
	AllowedTransitions []string   `json:"allowed_transitions" example:"ready"`
	ClusterRunID       string     `json:"cluster_run_id,omitempty" example:"01J9ZK3GJ0V4X6Q8RT5M2YDABC"`
	LeadCount          int        `json:"lead_count" example:"1800"`
	SubClusterCount    int        `json:"sub_cluster_count" example:"4"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TransitionInput requests one lifecycle transition. The legacy alias
// ready_for_outreach is accepted for ready
type TransitionInput struct {
	To string `json:"to" validate:"required,max=32" example:"ready"`
}

// TransitionResp echoes the applied transition and its side effects
type TransitionResp struct {
	ID          string     `json:"id" example:"8b9cf0f4-8d26-4e0a-9b3f-2f6d1c1f0a11"`
	From        string     `json:"from" example:"draft"`
	To          string     `json:"to" example:"ready"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ResultSubCluster is one sub-cluster of a result being accepted
type ResultSubCluster struct {
	Name           string   `json:"name" validate:"required,min=1,max=128" example:"crossfit"`
	MemberIDs      []string `json:"member_ids" validate:"required,min=1,dive,uuid4"`
	TopHashtags    []string `json:"top_hashtags" validate:"omitempty,max=10"`
	ThemeKeywords  []string `json:"theme_keywords" validate:"omitempty,max=10"`
	RelevanceScore float64  `json:"relevance_score" validate:"gte=0,lte=1" example:"0.87"`
}

// AcceptResultInput persists a clustering outcome onto a draft campaign
type AcceptResultInput struct {
	RunID       string             `json:"run_id" validate:"required,min=1,max=64" example:"01J9ZK3GJ0V4X6Q8RT5M2YDABC"`
	SubClusters []ResultSubCluster `json:"sub_clusters" validate:"required,min=1,dive"`
}
