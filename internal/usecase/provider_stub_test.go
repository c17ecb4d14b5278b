package usecase

import (
	"context"
	"strconv"
	"sync"
)

// stubProvider answers provider calls from per-endpoint hooks. A nil hook
// answers with a nil document.
type stubProvider struct {
	mu    sync.Mutex
	calls []string

	matchList    func(sport string, offset int) (any, error)
	matchDetails func(eventID string) (any, error)
	idsByURL     func(rawURL string) (any, error)
	details      func(stageID string) (any, error)
	results      func(templateID, seasonID string) (any, error)
	fixtures     func(templateID, seasonID string) (any, error)
	standings    func(tournamentID, stageID string, kind StandingKind) (any, error)
	topScorers   func(tournamentID, stageID string) (any, error)
	draw         func(tournamentID, drawStageID string) (any, error)
	archives     func(stageID string) (any, error)
}

func (p *stubProvider) record(call string) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()
}

func (p *stubProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *stubProvider) MatchList(_ context.Context, sport string, dayOffset int) (any, error) {
	p.record("MatchList:" + strconv.Itoa(dayOffset))
	if p.matchList == nil {
		return nil, nil
	}
	return p.matchList(sport, dayOffset)
}

func (p *stubProvider) MatchDetails(_ context.Context, eventID string) (any, error) {
	p.record("MatchDetails:" + eventID)
	if p.matchDetails == nil {
		return nil, nil
	}
	return p.matchDetails(eventID)
}

func (p *stubProvider) IDsByURL(_ context.Context, rawURL string) (any, error) {
	p.record("IDsByURL:" + rawURL)
	if p.idsByURL == nil {
		return nil, nil
	}
	return p.idsByURL(rawURL)
}

func (p *stubProvider) TournamentDetails(_ context.Context, stageID string) (any, error) {
	p.record("TournamentDetails:" + stageID)
	if p.details == nil {
		return nil, nil
	}
	return p.details(stageID)
}

func (p *stubProvider) Results(_ context.Context, templateID, seasonID string) (any, error) {
	p.record("Results:" + templateID + "/" + seasonID)
	if p.results == nil {
		return nil, nil
	}
	return p.results(templateID, seasonID)
}

func (p *stubProvider) Fixtures(_ context.Context, templateID, seasonID string) (any, error) {
	p.record("Fixtures:" + templateID + "/" + seasonID)
	if p.fixtures == nil {
		return nil, nil
	}
	return p.fixtures(templateID, seasonID)
}

func (p *stubProvider) Standings(_ context.Context, tournamentID, stageID string, kind StandingKind) (any, error) {
	p.record("Standings:" + string(kind))
	if p.standings == nil {
		return nil, nil
	}
	return p.standings(tournamentID, stageID, kind)
}

func (p *stubProvider) TopScorers(_ context.Context, tournamentID, stageID string) (any, error) {
	p.record("TopScorers:" + tournamentID + "/" + stageID)
	if p.topScorers == nil {
		return nil, nil
	}
	return p.topScorers(tournamentID, stageID)
}

func (p *stubProvider) Draw(_ context.Context, tournamentID, drawStageID string) (any, error) {
	p.record("Draw:" + tournamentID + "/" + drawStageID)
	if p.draw == nil {
		return nil, nil
	}
	return p.draw(tournamentID, drawStageID)
}

func (p *stubProvider) Archives(_ context.Context, stageID string) (any, error) {
	p.record("Archives:" + stageID)
	if p.archives == nil {
		return nil, nil
	}
	return p.archives(stageID)
}

var _ TournamentProvider = (*stubProvider)(nil)
