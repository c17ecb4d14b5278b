package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
)

const selectPhaseConfigsSQL = `SELECT tournament_ref, phase_id, name, phase_type, published, position, group_assignments
FROM tournament_phase_configs
WHERE tournament_ref = $1
ORDER BY position ASC, phase_id ASC`

type PhaseConfigRepository struct {
	db *sqlx.DB
}

func NewPhaseConfigRepository(db *sqlx.DB) *PhaseConfigRepository {
	return &PhaseConfigRepository{db: db}
}

func (r *PhaseConfigRepository) ListByTournament(ctx context.Context, tournamentRef string) ([]tournament.PhaseConfig, error) {
	var rows []phaseConfigModel
	if err := selectWithRetry(ctx, r.db, &rows, selectPhaseConfigsSQL, tournamentRef); err != nil {
		return nil, fmt.Errorf("select phase configs: %w", err)
	}

	out := make([]tournament.PhaseConfig, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
