package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
)

const (
	selectTabSnapshotSQL = `SELECT entity_type, entity_id, tab, payload, fetch_status, saved_at
FROM tab_snapshots
WHERE entity_type = $1 AND entity_id = $2 AND tab = $3`

	upsertTabSnapshotSQL = `INSERT INTO tab_snapshots (entity_type, entity_id, tab, payload, fetch_status, saved_at)
VALUES (:entity_type, :entity_id, :tab, :payload, :fetch_status, :saved_at)
ON CONFLICT (entity_type, entity_id, tab)
DO UPDATE SET
    payload = EXCLUDED.payload,
    fetch_status = EXCLUDED.fetch_status,
    saved_at = EXCLUDED.saved_at`
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Get(ctx context.Context, entityType, entityID string, tab tournament.Tab) (tournament.Snapshot, bool, error) {
	var row tabSnapshotModel
	if err := getWithRetry(ctx, r.db, &row, selectTabSnapshotSQL, entityType, entityID, string(tab)); err != nil {
		if isNotFound(err) {
			return tournament.Snapshot{}, false, nil
		}
		return tournament.Snapshot{}, false, fmt.Errorf("select tab snapshot: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return tournament.Snapshot{}, false, err
	}
	return item, true, nil
}

func (r *SnapshotRepository) Upsert(ctx context.Context, item tournament.Snapshot) error {
	row, err := toTabSnapshotModel(item)
	if err != nil {
		return err
	}
	if err := namedExecWithRetry(ctx, r.db, upsertTabSnapshotSQL, row); err != nil {
		return fmt.Errorf("upsert tab snapshot entity=%s tab=%s: %w", item.EntityID, item.Tab, err)
	}
	return nil
}
