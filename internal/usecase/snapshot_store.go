package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/payload"
)

// SnapshotStore keeps the last meaningful payload per entity tab. Empty
// payloads never replace what is stored.
type SnapshotStore struct {
	repo   tournament.SnapshotRepository
	logger *logging.Logger
	now    func() time.Time
}

func NewSnapshotStore(repo tournament.SnapshotRepository, logger *logging.Logger) *SnapshotStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotStore{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SnapshotStore) Get(ctx context.Context, entityType, entityID string, tab tournament.Tab) (tournament.Snapshot, bool, error) {
	if s.repo == nil {
		return tournament.Snapshot{}, false, nil
	}
	entityType, entityID = strings.TrimSpace(entityType), strings.TrimSpace(entityID)
	if entityType == "" || entityID == "" {
		return tournament.Snapshot{}, false, fmt.Errorf("%w: snapshot entity type and id are required", ErrInvalidInput)
	}

	item, ok, err := s.repo.Get(ctx, entityType, entityID, tab)
	if err != nil {
		return tournament.Snapshot{}, false, fmt.Errorf("get snapshot %s/%s/%s: %w", entityType, entityID, tab, err)
	}
	if !ok || !payload.IsMeaningful(item.Payload) {
		return tournament.Snapshot{}, false, nil
	}
	return item, true, nil
}

// Upsert stores data when it is meaningful and reports whether it did.
func (s *SnapshotStore) Upsert(ctx context.Context, entityType, entityID string, tab tournament.Tab, data any, fetchStatus string) (bool, error) {
	if s.repo == nil || !payload.IsMeaningful(data) {
		return false, nil
	}
	entityType, entityID = strings.TrimSpace(entityType), strings.TrimSpace(entityID)
	if entityType == "" || entityID == "" {
		return false, fmt.Errorf("%w: snapshot entity type and id are required", ErrInvalidInput)
	}
	if fetchStatus == "" {
		fetchStatus = tournament.FetchStatusOK
	}

	item := tournament.Snapshot{
		EntityType:  entityType,
		EntityID:    entityID,
		Tab:         tab,
		Payload:     data,
		FetchStatus: fetchStatus,
		SavedAt:     s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return false, fmt.Errorf("upsert snapshot %s/%s/%s: %w", entityType, entityID, tab, err)
	}

	s.logger.DebugContext(ctx, "snapshot saved", "entity_type", entityType, "entity_id", entityID, "tab", string(tab))
	return true, nil
}
