package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegroupStandings_AssignsZonesAndSortsByPosition(t *testing.T) {
	t.Parallel()

	row1 := map[string]any{"team": map[string]any{"id": float64(1)}, "position": float64(2)}
	row2 := map[string]any{"team": map[string]any{"id": float64(2)}, "position": float64(1)}

	got := RegroupStandings([]any{row1, row2}, map[string]int{"1": 0, "2": 1})

	assert.Equal(t, []any{
		map[string]any{"group_name": "Zone A", "rows": []any{row1}},
		map[string]any{"group_name": "Zone B", "rows": []any{row2}},
	}, got)
}

func TestRegroupStandings_FlattensUpstreamGroups(t *testing.T) {
	t.Parallel()

	doc := map[string]any{"DATA": []any{
		map[string]any{"group_name": "Group 1", "rows": []any{
			map[string]any{"participant_id": "a", "position": float64(3)},
			map[string]any{"participant_id": "b", "position": float64(1)},
		}},
		map[string]any{"group_name": "Group 2", "rows": []any{
			map[string]any{"team_id": "c", "position": "2"},
			map[string]any{"id": "d"},
		}},
	}}

	got := RegroupStandings(doc, map[string]int{"a": 2, "c": 2})
	require.Len(t, got, 2)

	zoneA := got[0].(map[string]any)
	assert.Equal(t, "Zone A", zoneA["group_name"])
	assert.Equal(t, []string{"d", "b"}, rowIDs(zoneA["rows"]))

	zoneC := got[1].(map[string]any)
	assert.Equal(t, "Zone C", zoneC["group_name"])
	assert.Equal(t, []string{"c", "a"}, rowIDs(zoneC["rows"]))
}

func TestRegroupStandings_KeepsUpstreamOrderForTies(t *testing.T) {
	t.Parallel()

	doc := []any{
		map[string]any{"id": "x"},
		map[string]any{"id": "y"},
		map[string]any{"id": "z", "position": float64(0)},
	}

	got := RegroupStandings(doc, map[string]int{"unused": 4})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"x", "y", "z"}, rowIDs(got[0].(map[string]any)["rows"]))
}

func TestZoneLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Zone A", ZoneLabel(0))
	assert.Equal(t, "Zone Z", ZoneLabel(25))
	assert.Equal(t, "Zone 27", ZoneLabel(26))
}

func rowIDs(rows any) []string {
	out := make([]string, 0)
	for _, row := range rows.([]any) {
		out = append(out, standingParticipantID(row.(map[string]any)))
	}
	return out
}
