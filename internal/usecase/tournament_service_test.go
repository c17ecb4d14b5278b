package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/infrastructure/repository/memory"
	tournamentmock "github.com/riskibarqy/flashscore-gateway/internal/mocks/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/cache"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fullReference = tournament.Reference{
	TournamentID: "500",
	StageID:      "S1",
	TemplateID:   "T1",
	SeasonID:     "2026",
}

func newTestTournamentService(provider TournamentProvider, phases tournament.PhaseConfigRepository) (*TournamentService, *memory.SnapshotRepository) {
	logger := logging.NewNop()
	repo := memory.NewSnapshotRepository()
	resolver := NewIdentifierResolver(provider, cache.NewStore(time.Minute), logger)
	service := NewTournamentService(resolver, provider, NewSnapshotStore(repo, logger), phases, logger)
	return service, repo
}

func seedSnapshot(t *testing.T, repo *memory.SnapshotRepository, entityID string, tab tournament.Tab, data any) {
	t.Helper()
	require.NoError(t, repo.Upsert(context.Background(), tournament.Snapshot{
		EntityType:  tournament.EntityTypeTournament,
		EntityID:    entityID,
		Tab:         tab,
		Payload:     data,
		FetchStatus: tournament.FetchStatusOK,
		SavedAt:     time.Now(),
	}))
}

func TestTournamentService_ResolvesFromTournamentIDAndFetchesTabs(t *testing.T) {
	t.Parallel()

	results := []any{map[string]any{"event_id": "r1"}}
	fixtures := []any{map[string]any{"event_id": "f1"}}
	standings := []any{map[string]any{"team": map[string]any{"id": "1"}, "position": float64(1)}}
	provider := &stubProvider{
		matchList: func(_ string, offset int) (any, error) {
			return map[string]any{"DATA": []any{map[string]any{
				"tournament_id":          "500",
				"tournament_stage_id":    "S1",
				"season_id":              "2026",
				"tournament_template_id": "T1",
			}}}, nil
		},
		results:  func(string, string) (any, error) { return map[string]any{"DATA": results}, nil },
		fixtures: func(string, string) (any, error) { return map[string]any{"DATA": fixtures}, nil },
		standings: func(_, _ string, kind StandingKind) (any, error) {
			if kind != StandingOverall {
				return map[string]any{"DATA": []any{}}, nil
			}
			return standings, nil
		},
	}
	service, repo := newTestTournamentService(provider, nil)

	got, err := service.Get(context.Background(), TournamentQuery{Reference: tournament.Reference{TournamentID: "500"}})
	require.NoError(t, err)

	assert.Equal(t, fullReference, got.Reference)
	assert.Equal(t, "500", got.EntityID)
	assert.False(t, got.Fallback)
	assert.Equal(t, results, got.Data(tournament.TabResults))
	assert.Equal(t, fixtures, got.Data(tournament.TabFixtures))
	assert.Equal(t, standings, got.Data(tournament.TabStandings))
	assert.Equal(t, tournament.SourceAPI, got.Sources[tournament.TabResults])
	assert.Equal(t, tournament.SourceAPI, got.Sources[tournament.TabFixtures])
	assert.Equal(t, tournament.SourceAPI, got.Sources[tournament.TabStandings])
	assert.Equal(t, tournament.SourceEmpty, got.Sources[tournament.TabStandingsForm])
	assert.Equal(t, []any{}, got.Data(tournament.TabStandingsForm))

	// Draw needs a draw stage id, which was never resolved.
	assert.Equal(t, tournament.SourceEmpty, got.Sources[tournament.TabDraw])
	assert.Nil(t, got.Data(tournament.TabDraw))
	assert.Contains(t, got.Debug.SkippedTabs, string(tournament.TabDraw))
	assert.NotContains(t, provider.Calls(), "Draw:500/")

	assert.Equal(t, 3, repo.Len())
	assert.Len(t, got.Sources, len(tournament.AllTabs))
}

func TestTournamentService_FailedTabServesSnapshot(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		results:  func(string, string) (any, error) { return nil, errors.New("provider status=503") },
		fixtures: func(string, string) (any, error) { return []any{map[string]any{"event_id": "f1"}}, nil },
	}
	service, repo := newTestTournamentService(provider, nil)
	snapshot := []any{map[string]any{"event_id": "old"}}
	seedSnapshot(t, repo, "500", tournament.TabResults, snapshot)

	got, err := service.Get(context.Background(), TournamentQuery{Reference: fullReference})
	require.NoError(t, err)

	assert.Equal(t, snapshot, got.Data(tournament.TabResults))
	assert.Equal(t, tournament.SourceSnapshot, got.Sources[tournament.TabResults])
	assert.Equal(t, tournament.SourceAPI, got.Sources[tournament.TabFixtures])
	assert.Contains(t, got.Debug.TabErrors[string(tournament.TabResults)], "503")
	assert.False(t, got.Fallback)
}

func TestTournamentService_EmptyLivePayloadPrefersSnapshot(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		details: func(string) (any, error) { return map[string]any{"DATA": map[string]any{}}, nil },
	}
	service, repo := newTestTournamentService(provider, nil)
	snapshot := map[string]any{"name": "Premier League"}
	seedSnapshot(t, repo, "500", tournament.TabDetails, snapshot)

	got, err := service.Get(context.Background(), TournamentQuery{Reference: fullReference})
	require.NoError(t, err)

	assert.Equal(t, snapshot, got.Data(tournament.TabDetails))
	assert.Equal(t, tournament.SourceSnapshot, got.Sources[tournament.TabDetails])

	stored, ok, err := repo.Get(context.Background(), tournament.EntityTypeTournament, "500", tournament.TabDetails)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snapshot, stored.Payload)
}

func TestTournamentService_EmptyWithoutSnapshotUsesTabShape(t *testing.T) {
	t.Parallel()

	service, repo := newTestTournamentService(&stubProvider{}, nil)

	got, err := service.Get(context.Background(), TournamentQuery{Reference: fullReference})
	require.NoError(t, err)

	for _, tab := range tournament.AllTabs {
		assert.Equal(t, tournament.SourceEmpty, got.Sources[tab], "tab=%s", tab)
		assert.Equal(t, tab.Empty(), got.Data(tab), "tab=%s", tab)
	}
	assert.Equal(t, 0, repo.Len())
}

func TestTournamentService_MeaningfulPayloadReplacesSnapshot(t *testing.T) {
	t.Parallel()

	fresh := []any{map[string]any{"player": "new"}}
	provider := &stubProvider{
		topScorers: func(string, string) (any, error) { return fresh, nil },
	}
	service, repo := newTestTournamentService(provider, nil)
	seedSnapshot(t, repo, "500", tournament.TabTopScorers, []any{map[string]any{"player": "old"}})

	got, err := service.Get(context.Background(), TournamentQuery{Reference: fullReference})
	require.NoError(t, err)
	assert.Equal(t, tournament.SourceAPI, got.Sources[tournament.TabTopScorers])

	stored, ok, err := repo.Get(context.Background(), tournament.EntityTypeTournament, "500", tournament.TabTopScorers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fresh, stored.Payload)
}

func TestTournamentService_RegroupsStandingsWithPhaseConfig(t *testing.T) {
	t.Parallel()

	row1 := map[string]any{"team": map[string]any{"id": float64(1)}, "position": float64(2)}
	row2 := map[string]any{"team": map[string]any{"id": float64(2)}, "position": float64(1)}
	provider := &stubProvider{
		standings: func(_, _ string, kind StandingKind) (any, error) {
			if kind != StandingOverall {
				return nil, nil
			}
			return map[string]any{"DATA": []any{map[string]any{"group_name": "Main", "rows": []any{row1, row2}}}}, nil
		},
	}
	phases := memory.NewPhaseConfigRepository(map[string][]tournament.PhaseConfig{
		"cup-1": {
			{ID: "p1", Name: "Qualifying", Type: tournament.PhaseTypeKnockout},
			{ID: "p2", Name: "Groups", Type: tournament.PhaseTypeGroups, Published: true, GroupAssignments: map[string]int{"1": 0, "2": 1}},
		},
	})
	service, repo := newTestTournamentService(provider, phases)

	got, err := service.Get(context.Background(), TournamentQuery{OpaqueID: "cup-1", Reference: fullReference})
	require.NoError(t, err)

	assert.True(t, got.Debug.CustomZones)
	assert.Equal(t, []any{
		map[string]any{"group_name": "Zone A", "rows": []any{row1}},
		map[string]any{"group_name": "Zone B", "rows": []any{row2}},
	}, got.Data(tournament.TabStandings))

	// The snapshot keeps the upstream grouping.
	stored, ok, err := repo.Get(context.Background(), tournament.EntityTypeTournament, "500", tournament.TabStandings)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{"group_name": "Main", "rows": []any{row1, row2}}}, stored.Payload)
}

func TestTournamentService_PipelineFailureFallsBackToSnapshotsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	phases := tournamentmock.NewPhaseConfigRepository(t)
	phases.
		On("ListByTournament", mock.Anything, "fs-500").
		Return(nil, errors.New("phase store exploded")).
		Once()

	provider := &stubProvider{}
	service, repo := newTestTournamentService(provider, phases)
	details := map[string]any{"name": "Liga"}
	standings := []any{map[string]any{"team": map[string]any{"id": "1"}}}
	seedSnapshot(t, repo, "500", tournament.TabDetails, details)
	seedSnapshot(t, repo, "500", tournament.TabStandings, standings)

	got, err := service.Get(ctx, TournamentQuery{OpaqueID: "fs-500", Reference: fullReference})
	require.NoError(t, err)

	assert.True(t, got.Fallback)
	assert.Equal(t, "500", got.EntityID)
	assert.Equal(t, details, got.Data(tournament.TabDetails))
	assert.Equal(t, standings, got.Data(tournament.TabStandings))
	assert.Equal(t, []any{}, got.Data(tournament.TabResults))
	assert.Equal(t, tournament.SourceSnapshot, got.Sources[tournament.TabDetails])
	assert.Equal(t, tournament.SourceSnapshot, got.Sources[tournament.TabStandings])
	assert.Equal(t, tournament.SourceEmpty, got.Sources[tournament.TabResults])
	assert.Contains(t, got.Debug.FallbackReason, "phase store exploded")
	assert.Empty(t, provider.Calls())
}

func TestTournamentService_PipelineFailureWithoutSnapshotsIsUnavailable(t *testing.T) {
	t.Parallel()

	phases := tournamentmock.NewPhaseConfigRepository(t)
	phases.On("ListByTournament", mock.Anything, "club-7").Return(nil, errors.New("boom")).Once()
	service, _ := newTestTournamentService(&stubProvider{}, phases)

	got, err := service.Get(context.Background(), TournamentQuery{OpaqueID: "club-7"})
	require.ErrorIs(t, err, ErrTournamentUnavailable)
	assert.True(t, got.Fallback)
	assert.Equal(t, "club-7", got.EntityID)
}

func TestTournamentService_PanickingTabFallsBack(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		archives: func(string) (any, error) { panic("unexpected payload shape") },
	}
	service, repo := newTestTournamentService(provider, nil)
	seedSnapshot(t, repo, "500", tournament.TabArchives, []any{map[string]any{"season": "2025"}})

	got, err := service.Get(context.Background(), TournamentQuery{Reference: fullReference})
	require.NoError(t, err)

	assert.True(t, got.Fallback)
	assert.Equal(t, tournament.SourceSnapshot, got.Sources[tournament.TabArchives])
	assert.Contains(t, got.Debug.FallbackReason, "unexpected payload shape")
}

func TestTournamentService_FallbackKeyChain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query TournamentQuery
		want  string
	}{
		{name: "stage id", query: TournamentQuery{OpaqueID: "x", Reference: tournament.Reference{StageID: "S9"}}, want: "S9"},
		{name: "opaque id", query: TournamentQuery{OpaqueID: "club-7", Reference: tournament.Reference{URL: "/u/"}}, want: "club-7"},
		{name: "url", query: TournamentQuery{Reference: tournament.Reference{URL: "/u/"}}, want: "/u/"},
		{name: "unknown", query: TournamentQuery{}, want: tournament.UnknownEntityID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, repo := newTestTournamentService(&stubProvider{}, nil)
			seedSnapshot(t, repo, tc.want, tournament.TabDetails, map[string]any{"name": tc.name})

			got, err := service.fallback(context.Background(), tc.query, tc.query.Reference, errors.New("cause"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.EntityID)
			assert.Equal(t, map[string]any{"name": tc.name}, got.Data(tournament.TabDetails))
		})
	}
}
