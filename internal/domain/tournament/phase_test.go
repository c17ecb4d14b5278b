package tournament

import "testing"

func TestActivePhase(t *testing.T) {
	t.Parallel()

	if _, ok := ActivePhase(nil); ok {
		t.Fatalf("expected no active phase for empty list")
	}

	items := []PhaseConfig{{ID: "p1"}, {ID: "p2", Published: true}, {ID: "p3", Published: true}}
	if got, _ := ActivePhase(items); got.ID != "p2" {
		t.Fatalf("expected first published phase, got=%s", got.ID)
	}

	items = []PhaseConfig{{ID: "p1"}, {ID: "p2"}}
	if got, _ := ActivePhase(items); got.ID != "p1" {
		t.Fatalf("expected first phase without a published one, got=%s", got.ID)
	}
}

func TestZoneAssignments(t *testing.T) {
	t.Parallel()

	assignments := map[string]int{"1": 0, "2": 1}
	cases := []struct {
		name  string
		items []PhaseConfig
		want  bool
	}{
		{name: "groups", items: []PhaseConfig{{Type: PhaseTypeGroups, GroupAssignments: assignments}}, want: true},
		{name: "league upper case", items: []PhaseConfig{{Type: "LEAGUE", GroupAssignments: assignments}}, want: true},
		{name: "knockout", items: []PhaseConfig{{Type: PhaseTypeKnockout, GroupAssignments: assignments}}, want: false},
		{name: "no assignments", items: []PhaseConfig{{Type: PhaseTypeGroups}}, want: false},
		{name: "inactive groups", items: []PhaseConfig{{Type: PhaseTypeKnockout, Published: true}, {Type: PhaseTypeGroups, GroupAssignments: assignments}}, want: false},
		{name: "empty", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ZoneAssignments(tc.items)
			if ok != tc.want {
				t.Fatalf("unexpected ok: got=%v want=%v", ok, tc.want)
			}
			if ok && len(got) != len(assignments) {
				t.Fatalf("unexpected assignments: %v", got)
			}
		})
	}
}
