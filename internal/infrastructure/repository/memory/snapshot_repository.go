package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
)

type snapshotKey struct {
	entityType string
	entityID   string
	tab        tournament.Tab
}

// SnapshotRepository keeps snapshots for the life of the process.
type SnapshotRepository struct {
	mu    sync.RWMutex
	items map[snapshotKey]tournament.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{items: make(map[snapshotKey]tournament.Snapshot)}
}

func (r *SnapshotRepository) Get(_ context.Context, entityType, entityID string, tab tournament.Tab) (tournament.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[snapshotKey{entityType: entityType, entityID: entityID, tab: tab}]
	return item, ok, nil
}

func (r *SnapshotRepository) Upsert(_ context.Context, item tournament.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[snapshotKey{entityType: item.EntityType, entityID: item.EntityID, tab: item.Tab}] = item
	return nil
}

func (r *SnapshotRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
