package cache

import (
	"context"
	"maps"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	basecache "github.com/riskibarqy/flashscore-gateway/internal/platform/cache"
)

const defaultPhaseConfigTTL = time.Minute

type PhaseConfigRepository struct {
	next  tournament.PhaseConfigRepository
	cache *basecache.Store
	ttl   time.Duration
}

func NewPhaseConfigRepository(next tournament.PhaseConfigRepository, cache *basecache.Store, ttl time.Duration) *PhaseConfigRepository {
	if ttl <= 0 {
		ttl = defaultPhaseConfigTTL
	}
	return &PhaseConfigRepository{next: next, cache: cache, ttl: ttl}
}

func (r *PhaseConfigRepository) ListByTournament(ctx context.Context, tournamentRef string) ([]tournament.PhaseConfig, error) {
	v, err := r.cache.GetOrLoad(ctx, phaseConfigKey(tournamentRef), r.ttl, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentRef)
		if err != nil {
			return nil, err
		}
		return clonePhaseConfigs(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.PhaseConfig)
	return clonePhaseConfigs(items), nil
}

// Invalidate drops the cached phase list of one tournament.
func (r *PhaseConfigRepository) Invalidate(ctx context.Context, tournamentRef string) {
	r.cache.Delete(ctx, phaseConfigKey(tournamentRef))
}

func clonePhaseConfigs(items []tournament.PhaseConfig) []tournament.PhaseConfig {
	out := make([]tournament.PhaseConfig, 0, len(items))
	for _, item := range items {
		copied := item
		copied.GroupAssignments = maps.Clone(item.GroupAssignments)
		out = append(out, copied)
	}
	return out
}

func phaseConfigKey(tournamentRef string) string {
	return "phase-config:tournament:" + tournamentRef
}
