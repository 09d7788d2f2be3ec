// Package domain holds campaign types and the HTTP/service contracts
package domain

import (
	"time"

	"github.com/google/uuid"

	"nichelens/internal/core/lifecycle"
)

// Campaign is the persisted campaign row
type Campaign struct {
	ID           uuid.UUID
	Name         string
	NicheName    string
	Seeds        []string
	Geography    string
	Status       lifecycle.Status
	ClusterRunID string // empty until a clustering result is accepted
	LeadCount    int
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubClusterRecord is one persisted sub-cluster of an accepted result
type SubClusterRecord struct {
	Position       int
	Name           string
	MemberIDs      []string
	MemberCount    int
	TopHashtags    []string
	ThemeKeywords  []string
	RelevanceScore float64
}
