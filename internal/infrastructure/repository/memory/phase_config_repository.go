package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
)

type PhaseConfigRepository struct {
	mu     sync.RWMutex
	phases map[string][]tournament.PhaseConfig
}

func NewPhaseConfigRepository(phases map[string][]tournament.PhaseConfig) *PhaseConfigRepository {
	repo := &PhaseConfigRepository{phases: make(map[string][]tournament.PhaseConfig, len(phases))}
	for id, items := range phases {
		repo.phases[id] = append([]tournament.PhaseConfig(nil), items...)
	}
	return repo
}

func (r *PhaseConfigRepository) ListByTournament(_ context.Context, tournamentRef string) ([]tournament.PhaseConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.phases[tournamentRef]
	out := make([]tournament.PhaseConfig, 0, len(items))
	out = append(out, items...)
	return out, nil
}

// Replace swaps the phase list of one tournament.
func (r *PhaseConfigRepository) Replace(tournamentRef string, items []tournament.PhaseConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.phases[tournamentRef] = append([]tournament.PhaseConfig(nil), items...)
}
