package tournament

import (
	"context"
	"strings"
)

type PhaseType string

const (
	PhaseTypeGroups   PhaseType = "groups"
	PhaseTypeLeague   PhaseType = "league"
	PhaseTypeKnockout PhaseType = "knockout"
)

// PhaseConfig is an operator-defined phase of a tournament. GroupAssignments
// maps a participant id to a zero-based zone index.
type PhaseConfig struct {
	ID               string         `json:"id" yaml:"id"`
	Name             string         `json:"name" yaml:"name"`
	Type             PhaseType      `json:"type" yaml:"type"`
	Published        bool           `json:"published" yaml:"published"`
	GroupAssignments map[string]int `json:"groupAssignments,omitempty" yaml:"groupAssignments"`
}

// PhaseConfigRepository lists the phase configs stored for an opaque tournament id, in order.
type PhaseConfigRepository interface {
	ListByTournament(ctx context.Context, tournamentRef string) ([]PhaseConfig, error)
}

// ActivePhase returns the published phase, else the first one.
func ActivePhase(items []PhaseConfig) (PhaseConfig, bool) {
	if len(items) == 0 {
		return PhaseConfig{}, false
	}
	for _, item := range items {
		if item.Published {
			return item, true
		}
	}
	return items[0], true
}

// ZoneAssignments returns the custom zone mapping of the active phase, or
// false when standings should pass through unchanged.
func ZoneAssignments(items []PhaseConfig) (map[string]int, bool) {
	active, ok := ActivePhase(items)
	if !ok {
		return nil, false
	}
	switch PhaseType(strings.ToLower(string(active.Type))) {
	case PhaseTypeGroups, PhaseTypeLeague:
	default:
		return nil, false
	}
	if len(active.GroupAssignments) == 0 {
		return nil, false
	}
	return active.GroupAssignments, true
}
