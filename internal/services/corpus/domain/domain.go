// Package domain holds the corpus read model shared by analysis services
package domain

import "time"

// Recency defaults: leads age out of analysis faster than their hashtag
// observations do
const (
	DefaultLeadWindow    = 45 * 24 * time.Hour
	DefaultHashtagWindow = 90 * 24 * time.Hour
	DefaultMaxLeads      = 200_000
)

// Lead is a captured social profile eligible for analysis
type Lead struct {
	ID          string
	Username    string
	Geography   string
	Contactable bool
	Hashtags    []string // raw tokens as captured; canonicalization happens downstream
	CapturedAt  time.Time
}

// Occurrence is one raw hashtag observation on one lead
type Occurrence struct {
	LeadID      string
	Hashtag     string
	Source      string // bio or post
	Contactable bool
	SeenAt      time.Time
}

// Filters scope a corpus read. Zero values take the defaults
type Filters struct {
	Geography     string
	SeedKeywords  []string
	LeadIDs       []string // explicit allowlist; empty means all
	LeadWindow    time.Duration
	HashtagWindow time.Duration
	MaxLeads      int
}

// WithDefaults fills unset windows and caps
func (f Filters) WithDefaults() Filters {
	if f.LeadWindow <= 0 {
		f.LeadWindow = DefaultLeadWindow
	}
	if f.HashtagWindow <= 0 {
		f.HashtagWindow = DefaultHashtagWindow
	}
	if f.MaxLeads <= 0 {
		f.MaxLeads = DefaultMaxLeads
	}
	return f
}

// Snapshot is one frozen corpus read taken at analysis start. Pure
// computation downstream never re-reads the store
type Snapshot struct {
	Leads       []Lead
	Occurrences []Occurrence
	TotalLeads  int
	TakenAt     time.Time
}
