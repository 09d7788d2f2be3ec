// Package lifecycle models the campaign finite-state machine. Transitions are
// validated here as pure logic; compare-and-set against the persisted status
// belongs to the repository layer
package lifecycle

import (
	"time"

	perr "nichelens/internal/platform/errors"
)

// Status is a campaign lifecycle state
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReady     Status = "ready"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"

	// legacy alias accepted on input, never emitted
	aliasReadyForOutreach = "ready_for_outreach"
)

// transitions is the full allowed-edge table. completed is terminal
var transitions = map[Status][]Status{
	StatusDraft:     {StatusReady},
	StatusReady:     {StatusDraft, StatusActive},
	StatusActive:    {StatusPaused, StatusCompleted},
	StatusPaused:    {StatusActive, StatusCompleted},
	StatusCompleted: {},
}

// Parse validates a raw status string, accepting the legacy ready alias
func Parse(raw string) (Status, error) {
	if raw == aliasReadyForOutreach {
		return StatusReady, nil
	}
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", perr.InvalidArgf("unknown campaign status %q", raw)
	}
	return s, nil
}

// AllowedTransitions lists the statuses reachable from the given one
func AllowedTransitions(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is an allowed edge
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Editable reports whether campaign configuration may be mutated in this state
func Editable(s Status) bool { return s == StatusDraft }

// Terminal reports whether the state admits no further transitions
func Terminal(s Status) bool { return len(transitions[s]) == 0 }

// Guard inputs for edges that require more than the transition table
type Guard struct {
	HasClusterResult bool
	LeadCount        int
}

// Validate checks the edge and its guards, returning a conflict error with
// actionable detail when the transition is not allowed
func Validate(from, to Status, g Guard) error {
	if !CanTransition(from, to) {
		if Terminal(from) {
			return perr.Conflictf("campaign is completed; no further transitions allowed")
		}
		return perr.Conflictf("cannot transition campaign from %s to %s", from, to)
	}
	if from == StatusDraft && to == StatusReady {
		if !g.HasClusterResult {
			return perr.Conflictf("campaign needs a clustering result before it can be marked ready")
		}
		if g.LeadCount < 1 {
			return perr.Conflictf("campaign needs at least one associated lead before it can be marked ready")
		}
	}
	return nil
}

// Effects are the timestamp side effects a committed transition must apply
type Effects struct {
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// EffectsFor computes timestamp side effects for a validated transition.
// First entry into active stamps the start; entry into completed stamps
// completion. alreadyStarted suppresses re-stamping on paused -> active
func EffectsFor(to Status, alreadyStarted bool, now time.Time) Effects {
	var e Effects
	switch to {
	case StatusActive:
		if !alreadyStarted {
			t := now
			e.StartedAt = &t
		}
	case StatusCompleted:
		t := now
		e.CompletedAt = &t
	}
	return e
}
