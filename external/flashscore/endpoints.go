package flashscore

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/usecase"
)

const (
	pathMatchList         = "/v1/events/list"
	pathMatchDetails      = "/v1/events/data"
	pathIDsByURL          = "/v1/tournaments/ids-by-url"
	pathTournamentDetails = "/v1/tournaments/data"
	pathResults           = "/v1/tournaments/results"
	pathFixtures          = "/v1/tournaments/fixtures"
	pathStandings         = "/v1/tournaments/standings"
	pathTopScorers        = "/v1/tournaments/top-scorers"
	pathDraw              = "/v1/tournaments/draw"
	pathArchives          = "/v1/tournaments/archives"
)

const (
	ttlLive     = 10 * time.Second
	ttlDetails  = 30 * time.Second
	ttlMatches  = 60 * time.Second
	ttlTables   = 120 * time.Second
	ttlMetadata = 300 * time.Second
)

var _ usecase.TournamentProvider = (*Client)(nil)

// MatchList returns the matches of sport for today shifted by dayOffset days.
// Today's list is treated as live data.
func (c *Client) MatchList(ctx context.Context, sport string, dayOffset int) (any, error) {
	ttl := ttlMatches
	if dayOffset == 0 {
		ttl = ttlLive
	}
	return c.FetchJSON(ctx, pathMatchList, map[string]string{
		"sport_id":    strconv.Itoa(SportID(sport)),
		"indent_days": strconv.Itoa(dayOffset),
		"timezone":    c.timezone,
		"locale":      c.locale,
	}, ttl)
}

func (c *Client) MatchDetails(ctx context.Context, eventID string) (any, error) {
	return c.FetchJSON(ctx, pathMatchDetails, map[string]string{
		"event_id": strings.TrimSpace(eventID),
		"locale":   c.locale,
	}, ttlDetails)
}

func (c *Client) IDsByURL(ctx context.Context, tournamentURL string) (any, error) {
	return c.FetchJSON(ctx, pathIDsByURL, map[string]string{
		"url": strings.TrimSpace(tournamentURL),
	}, ttlMetadata)
}

func (c *Client) TournamentDetails(ctx context.Context, stageID string) (any, error) {
	return c.FetchJSON(ctx, pathTournamentDetails, map[string]string{
		"tournament_stage_id": strings.TrimSpace(stageID),
		"locale":              c.locale,
	}, ttlMetadata)
}

func (c *Client) Results(ctx context.Context, templateID, seasonID string) (any, error) {
	return c.FetchJSON(ctx, pathResults, c.seasonQuery(templateID, seasonID), ttlMatches)
}

func (c *Client) Fixtures(ctx context.Context, templateID, seasonID string) (any, error) {
	return c.FetchJSON(ctx, pathFixtures, c.seasonQuery(templateID, seasonID), ttlMatches)
}

func (c *Client) Standings(ctx context.Context, tournamentID, stageID string, kind usecase.StandingKind) (any, error) {
	if kind == "" {
		kind = usecase.StandingOverall
	}
	return c.FetchJSON(ctx, pathStandings, map[string]string{
		"tournament_id":       strings.TrimSpace(tournamentID),
		"tournament_stage_id": strings.TrimSpace(stageID),
		"standing_type":       string(kind),
		"locale":              c.locale,
	}, ttlTables)
}

func (c *Client) TopScorers(ctx context.Context, tournamentID, stageID string) (any, error) {
	return c.FetchJSON(ctx, pathTopScorers, map[string]string{
		"tournament_id":       strings.TrimSpace(tournamentID),
		"tournament_stage_id": strings.TrimSpace(stageID),
		"locale":              c.locale,
	}, ttlTables)
}

func (c *Client) Draw(ctx context.Context, tournamentID, drawStageID string) (any, error) {
	return c.FetchJSON(ctx, pathDraw, map[string]string{
		"tournament_id": strings.TrimSpace(tournamentID),
		"draw_stage_id": strings.TrimSpace(drawStageID),
		"locale":        c.locale,
	}, ttlMetadata)
}

func (c *Client) Archives(ctx context.Context, stageID string) (any, error) {
	return c.FetchJSON(ctx, pathArchives, map[string]string{
		"tournament_stage_id": strings.TrimSpace(stageID),
		"locale":              c.locale,
	}, ttlMetadata)
}

func (c *Client) seasonQuery(templateID, seasonID string) map[string]string {
	return map[string]string{
		"tournament_template_id": strings.TrimSpace(templateID),
		"season_id":              strings.TrimSpace(seasonID),
		"locale":                 c.locale,
	}
}
