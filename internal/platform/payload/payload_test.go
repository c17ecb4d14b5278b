package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMeaningful(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{name: "nil", in: nil, want: false},
		{name: "empty array", in: []any{}, want: false},
		{name: "empty object", in: map[string]any{}, want: false},
		{name: "nil typed slice", in: []map[string]any(nil), want: false},
		{name: "empty string", in: "", want: false},
		{name: "array with empty object", in: []any{map[string]any{}}, want: true},
		{name: "object", in: map[string]any{"a": float64(1)}, want: true},
		{name: "string", in: "x", want: true},
		{name: "zero number", in: float64(0), want: true},
		{name: "false", in: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMeaningful(tt.in))
		})
	}
}

func TestUnwrap(t *testing.T) {
	rows := []any{map[string]any{"id": "1"}}

	assert.Equal(t, rows, Unwrap(map[string]any{"DATA": rows}))
	assert.Equal(t, rows, Unwrap(map[string]any{"data": rows}))
	assert.Equal(t, rows, Unwrap(rows))

	bare := map[string]any{"NAME": "Premier League"}
	assert.Equal(t, bare, Unwrap(bare))
}

func TestFindFirst_PrefersShallowMatches(t *testing.T) {
	doc := map[string]any{
		"DATA": map[string]any{
			"EVENTS": []any{
				map[string]any{"TOURNAMENT_STAGE_ID": "deep"},
			},
			"TOURNAMENT_STAGE_ID": "shallow",
		},
	}

	got, ok := FindFirst(doc, "tournament_stage_id")
	require.True(t, ok)
	assert.Equal(t, "shallow", got)
}

func TestFindFirst_KeyOrderAndNumbers(t *testing.T) {
	doc := map[string]any{
		"season_id":              float64(2026),
		"tournament_season_id":   "ignored",
		"tournament_template_id": "",
		"nested":                 map[string]any{"template_id": "T1"},
	}

	season, ok := FindFirst(doc, "season_id", "tournament_season_id")
	require.True(t, ok)
	assert.Equal(t, "2026", season)

	template, ok := FindFirst(doc, "tournament_template_id", "template_id")
	require.True(t, ok)
	assert.Equal(t, "T1", template)

	_, ok = FindFirst(doc, "draw_stage_id")
	assert.False(t, ok)
}

func TestFindFirst_HandlesSharedAndDeepStructures(t *testing.T) {
	shared := map[string]any{"x": "y"}
	doc := map[string]any{"a": shared, "b": shared}
	_, ok := FindFirst(doc, "missing")
	assert.False(t, ok)

	var deep any = map[string]any{"target": "found"}
	for i := 0; i < MaxSearchDepth+5; i++ {
		deep = map[string]any{"child": deep}
	}
	_, ok = FindFirst(deep, "target")
	assert.False(t, ok, "search must stop at MaxSearchDepth")
}

func TestScalarAndNumber(t *testing.T) {
	text, ok := Scalar(float64(500))
	require.True(t, ok)
	assert.Equal(t, "500", text)

	text, ok = Scalar(1.5)
	require.True(t, ok)
	assert.Equal(t, "1.5", text)

	_, ok = Scalar(map[string]any{})
	assert.False(t, ok)

	assert.Equal(t, float64(3), Number("3"))
	assert.Equal(t, float64(0), Number(nil))
	assert.Equal(t, float64(0), Number("n/a"))
}

func TestFieldAndObjects(t *testing.T) {
	obj := map[string]any{"EVENT_ID": "abc", "name": "x"}
	assert.Equal(t, "abc", Field(obj, "id", "event_id"))
	assert.Equal(t, "", Field(obj, "missing"))

	items := Objects([]any{map[string]any{"a": 1}, "skip", nil})
	assert.Len(t, items, 1)
	assert.Nil(t, Objects("not a list"))
}
