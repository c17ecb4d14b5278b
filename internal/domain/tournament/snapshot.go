package tournament

import (
	"context"
	"time"
)

// EntityTypeTournament is the entity type used for tournament tab snapshots.
const EntityTypeTournament = "tournament"

// FetchStatusOK marks snapshots saved from a successful live fetch.
const FetchStatusOK = "ok"

// Snapshot is the last meaningful payload seen for one tab of one entity.
type Snapshot struct {
	EntityType  string
	EntityID    string
	Tab         Tab
	Payload     any
	FetchStatus string
	SavedAt     time.Time
}

// SnapshotRepository persists snapshots. Get reports false when nothing is stored.
type SnapshotRepository interface {
	Get(ctx context.Context, entityType, entityID string, tab Tab) (Snapshot, bool, error)
	Upsert(ctx context.Context, item Snapshot) error
}
