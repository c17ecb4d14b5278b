package usecase

import "context"

// StandingKind selects a standings table variant at the provider.
type StandingKind string

const (
	StandingOverall   StandingKind = "overall"
	StandingForm      StandingKind = "form"
	StandingHtFt      StandingKind = "ht_ft"
	StandingOverUnder StandingKind = "over_under"
)

// TournamentProvider is the upstream sports-data source. Every method returns
// the decoded JSON document as-is; callers unwrap envelopes themselves.
type TournamentProvider interface {
	MatchList(ctx context.Context, sport string, dayOffset int) (any, error)
	MatchDetails(ctx context.Context, eventID string) (any, error)
	IDsByURL(ctx context.Context, tournamentURL string) (any, error)
	TournamentDetails(ctx context.Context, stageID string) (any, error)
	Results(ctx context.Context, templateID, seasonID string) (any, error)
	Fixtures(ctx context.Context, templateID, seasonID string) (any, error)
	Standings(ctx context.Context, tournamentID, stageID string, kind StandingKind) (any, error)
	TopScorers(ctx context.Context, tournamentID, stageID string) (any, error)
	Draw(ctx context.Context, tournamentID, drawStageID string) (any, error)
	Archives(ctx context.Context, stageID string) (any, error)
}
