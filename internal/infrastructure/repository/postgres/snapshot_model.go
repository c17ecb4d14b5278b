package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
)

type tabSnapshotModel struct {
	EntityType  string    `db:"entity_type"`
	EntityID    string    `db:"entity_id"`
	Tab         string    `db:"tab"`
	Payload     []byte    `db:"payload"`
	FetchStatus string    `db:"fetch_status"`
	SavedAt     time.Time `db:"saved_at"`
}

func toTabSnapshotModel(item tournament.Snapshot) (tabSnapshotModel, error) {
	raw, err := sonic.Marshal(item.Payload)
	if err != nil {
		return tabSnapshotModel{}, fmt.Errorf("encode snapshot payload: %w", err)
	}
	savedAt := item.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	return tabSnapshotModel{
		EntityType:  item.EntityType,
		EntityID:    item.EntityID,
		Tab:         string(item.Tab),
		Payload:     raw,
		FetchStatus: item.FetchStatus,
		SavedAt:     savedAt,
	}, nil
}

func (m tabSnapshotModel) toDomain() (tournament.Snapshot, error) {
	var data any
	if len(m.Payload) > 0 {
		if err := sonic.Unmarshal(m.Payload, &data); err != nil {
			return tournament.Snapshot{}, fmt.Errorf("decode snapshot payload: %w", err)
		}
	}
	return tournament.Snapshot{
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Tab:         tournament.Tab(m.Tab),
		Payload:     data,
		FetchStatus: m.FetchStatus,
		SavedAt:     m.SavedAt,
	}, nil
}

type phaseConfigModel struct {
	TournamentRef    string `db:"tournament_ref"`
	ID               string `db:"phase_id"`
	Name             string `db:"name"`
	Type             string `db:"phase_type"`
	Published        bool   `db:"published"`
	Position         int    `db:"position"`
	GroupAssignments []byte `db:"group_assignments"`
}

func (m phaseConfigModel) toDomain() (tournament.PhaseConfig, error) {
	out := tournament.PhaseConfig{
		ID:        m.ID,
		Name:      m.Name,
		Type:      tournament.PhaseType(m.Type),
		Published: m.Published,
	}
	if len(m.GroupAssignments) > 0 {
		if err := sonic.Unmarshal(m.GroupAssignments, &out.GroupAssignments); err != nil {
			return tournament.PhaseConfig{}, fmt.Errorf("decode group assignments phase_id=%s: %w", m.ID, err)
		}
	}
	return out, nil
}
