package tournament

// Tab is one independently fetched category of tournament data.
type Tab string

const (
	TabDetails            Tab = "details"
	TabResults            Tab = "results"
	TabFixtures           Tab = "fixtures"
	TabStandings          Tab = "standings"
	TabStandingsForm      Tab = "standingsForm"
	TabStandingsHtFt      Tab = "standingsHtFt"
	TabStandingsOverUnder Tab = "standingsOverUnder"
	TabTopScorers         Tab = "topScorers"
	TabDraw               Tab = "draw"
	TabArchives           Tab = "archives"
)

// AllTabs is the fixed order tabs appear in responses and fallbacks.
var AllTabs = []Tab{
	TabDetails,
	TabResults,
	TabFixtures,
	TabStandings,
	TabStandingsForm,
	TabStandingsHtFt,
	TabStandingsOverUnder,
	TabTopScorers,
	TabDraw,
	TabArchives,
}

// Eligible reports whether ref carries the identifiers tab needs.
func (t Tab) Eligible(ref Reference) bool {
	switch t {
	case TabDetails, TabArchives:
		return ref.StageID != ""
	case TabResults, TabFixtures:
		return ref.TemplateID != "" && ref.SeasonID != ""
	case TabStandings, TabStandingsForm, TabStandingsHtFt, TabStandingsOverUnder, TabTopScorers:
		return ref.TournamentID != "" && ref.StageID != ""
	case TabDraw:
		return ref.TournamentID != "" && ref.DrawStageID != ""
	default:
		return false
	}
}

// IsStandings reports whether t is one of the standings variants.
func (t Tab) IsStandings() bool {
	switch t {
	case TabStandings, TabStandingsForm, TabStandingsHtFt, TabStandingsOverUnder:
		return true
	}
	return false
}

// Empty returns the zero value a tab is served as when nothing is available.
func (t Tab) Empty() any {
	switch t {
	case TabDetails, TabDraw:
		return nil
	default:
		return []any{}
	}
}

func (t Tab) Valid() bool {
	for _, candidate := range AllTabs {
		if candidate == t {
			return true
		}
	}
	return false
}

// Source tags where a tab's data came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceSnapshot Source = "snapshot"
	SourceEmpty    Source = "empty"
)
