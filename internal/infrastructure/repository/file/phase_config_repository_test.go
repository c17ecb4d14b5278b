package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePhases = `
tournaments:
  fs-500:
    - id: league-phase
      name: League phase
      type: league
      published: true
      groupAssignments:
        t1: 0
        t2: 1
    - id: playoffs
      name: Playoffs
      type: knockout
`

func writePhaseFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "phases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestPhaseConfigRepository_ListByTournament(t *testing.T) {
	t.Parallel()

	repo, err := NewPhaseConfigRepository(writePhaseFile(t, samplePhases))
	require.NoError(t, err)

	items, err := repo.ListByTournament(context.Background(), "fs-500")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "league-phase", items[0].ID)
	assert.Equal(t, tournament.PhaseTypeLeague, items[0].Type)
	assert.True(t, items[0].Published)
	assert.Equal(t, map[string]int{"t1": 0, "t2": 1}, items[0].GroupAssignments)
	assert.Equal(t, tournament.PhaseTypeKnockout, items[1].Type)

	missing, err := repo.ListByTournament(context.Background(), "fs-404")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestPhaseConfigRepository_Reload(t *testing.T) {
	t.Parallel()

	path := writePhaseFile(t, "")
	repo, err := NewPhaseConfigRepository(path)
	require.NoError(t, err)

	items, err := repo.ListByTournament(context.Background(), "fs-500")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, os.WriteFile(path, []byte(samplePhases), 0o600))
	require.NoError(t, repo.Reload())

	items, err = repo.ListByTournament(context.Background(), "fs-500")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPhaseConfigRepository_RejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown field", body: "tournaments:\n  fs-1:\n    - id: p1\n      colour: red\n"},
		{name: "missing phase id", body: "tournaments:\n  fs-1:\n    - name: nameless\n"},
		{name: "negative zone", body: "tournaments:\n  fs-1:\n    - id: p1\n      groupAssignments:\n        t1: -1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPhaseConfigRepository(writePhaseFile(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestNewPhaseConfigRepository_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewPhaseConfigRepository(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
