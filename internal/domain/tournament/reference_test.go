package tournament

import "testing"

func TestReference_MergeFirstNonEmptyWins(t *testing.T) {
	t.Parallel()

	got := Reference{TournamentID: "A"}.Merge(Reference{TournamentID: "B", StageID: "S"})
	want := Reference{TournamentID: "A", StageID: "S"}
	if got != want {
		t.Fatalf("unexpected merge result: got=%+v want=%+v", got, want)
	}
}

func TestReference_MergeIsIdempotent(t *testing.T) {
	t.Parallel()

	full := Reference{TournamentID: "1", StageID: "2", TemplateID: "3", SeasonID: "4", DrawStageID: "5", URL: "/u/"}
	if got := full.Merge(Reference{TournamentID: "x", URL: "/other/"}); got != full {
		t.Fatalf("populated fields were overwritten: %+v", got)
	}
	if got := full.Merge(full); got != full {
		t.Fatalf("self merge changed reference: %+v", got)
	}
	if got := full.Merge(Reference{}); got != full {
		t.Fatalf("merge with empty changed reference: %+v", got)
	}
}

func TestReference_Resolved(t *testing.T) {
	t.Parallel()

	if (Reference{TournamentID: "1", StageID: "2", TemplateID: "3"}).Resolved() {
		t.Fatalf("expected unresolved without season")
	}
	if !(Reference{StageID: "2", TemplateID: "3", SeasonID: "4"}).Resolved() {
		t.Fatalf("expected resolved with stage, template and season")
	}
}

func TestEntityID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		ref    Reference
		opaque string
		want   string
	}{
		{name: "tournament id", ref: Reference{TournamentID: "500", StageID: "S1"}, opaque: "fs-x", want: "500"},
		{name: "stage id", ref: Reference{StageID: "S1", URL: "/u/"}, opaque: "fs-x", want: "S1"},
		{name: "opaque id", ref: Reference{URL: "/u/"}, opaque: " fs-x ", want: "fs-x"},
		{name: "url", ref: Reference{URL: "/u/"}, want: "/u/"},
		{name: "unknown", want: UnknownEntityID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := EntityID(tc.ref, tc.opaque); got != tc.want {
				t.Fatalf("unexpected entity id: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestReference_Missing(t *testing.T) {
	t.Parallel()

	got := Reference{TournamentID: "1", SeasonID: "4"}.Missing()
	want := []string{"tournament_stage_id", "tournament_template_id", "draw_stage_id", "url"}
	if len(got) != len(want) {
		t.Fatalf("unexpected missing fields: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected missing fields: got=%v want=%v", got, want)
		}
	}
}
