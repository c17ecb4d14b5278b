package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/usecase"
)

type tournamentQueryRequest struct {
	ID                   string `validate:"omitempty,max=128"`
	URL                  string `validate:"omitempty,max=512"`
	Sport                string `validate:"omitempty,max=64"`
	TournamentID         string `validate:"omitempty,max=64"`
	TournamentStageID    string `validate:"omitempty,max=64"`
	TournamentTemplateID string `validate:"omitempty,max=64"`
	SeasonID             string `validate:"omitempty,max=64"`
	DrawStageID          string `validate:"omitempty,max=64"`
	Debug                bool
}

type tournamentResponse struct {
	OK                 bool                     `json:"ok"`
	IDs                tournament.Reference     `json:"ids"`
	Details            any                      `json:"details"`
	Results            any                      `json:"results"`
	Fixtures           any                      `json:"fixtures"`
	Standings          any                      `json:"standings"`
	StandingsForm      any                      `json:"standingsForm"`
	StandingsHtFt      any                      `json:"standingsHtFt"`
	StandingsOverUnder any                      `json:"standingsOverUnder"`
	TopScorers         any                      `json:"topScorers"`
	Draw               any                      `json:"draw"`
	Archives           any                      `json:"archives"`
	Debug              *usecase.TournamentDebug `json:"_debug,omitempty"`
	Cache              tournamentCacheDTO       `json:"_cache"`
}

type tournamentCacheDTO struct {
	EntityID   string            `json:"entityId"`
	TabSources map[string]string `json:"tabSources"`
	Fallback   bool              `json:"fallback,omitempty"`
}

type tournamentErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	req := parseTournamentQuery(r.URL.Query())
	if err := h.validateRequest(ctx, req); err != nil {
		writeTournamentError(ctx, w, err)
		return
	}

	query, err := usecase.NewTournamentQuery(
		req.ID,
		req.URL,
		firstNonEmpty(req.Sport, h.defaultSport),
		tournament.Reference{
			TournamentID: req.TournamentID,
			StageID:      req.TournamentStageID,
			TemplateID:   req.TournamentTemplateID,
			SeasonID:     req.SeasonID,
			DrawStageID:  req.DrawStageID,
		},
		h.idPrefix,
	)
	if err != nil {
		writeTournamentError(ctx, w, err)
		return
	}

	result, err := h.tournamentService.Get(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "get tournament failed", "id", query.OpaqueID, "error", err)
		writeTournamentError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, tournamentToResponse(result, req.Debug))
}

// parseTournamentQuery accepts snake_case parameters and their camelCase aliases.
func parseTournamentQuery(values url.Values) tournamentQueryRequest {
	get := func(keys ...string) string {
		for _, key := range keys {
			if v := strings.TrimSpace(values.Get(key)); v != "" {
				return v
			}
		}
		return ""
	}

	return tournamentQueryRequest{
		ID:                   get("id"),
		URL:                  get("url"),
		Sport:                get("sport"),
		TournamentID:         get("tournament_id", "tournamentId"),
		TournamentStageID:    get("tournament_stage_id", "tournamentStageId", "stage_id", "stageId"),
		TournamentTemplateID: get("tournament_template_id", "tournamentTemplateId", "template_id", "templateId"),
		SeasonID:             get("season_id", "seasonId"),
		DrawStageID:          get("draw_stage_id", "drawStageId"),
		Debug:                parseFlag(get("debug", "_debug")),
	}
}

func tournamentToResponse(result usecase.TournamentResult, debug bool) tournamentResponse {
	sources := make(map[string]string, len(result.Sources))
	for tab, source := range result.Sources {
		sources[string(tab)] = string(source)
	}

	out := tournamentResponse{
		OK:                 true,
		IDs:                result.Reference,
		Details:            result.Data(tournament.TabDetails),
		Results:            result.Data(tournament.TabResults),
		Fixtures:           result.Data(tournament.TabFixtures),
		Standings:          result.Data(tournament.TabStandings),
		StandingsForm:      result.Data(tournament.TabStandingsForm),
		StandingsHtFt:      result.Data(tournament.TabStandingsHtFt),
		StandingsOverUnder: result.Data(tournament.TabStandingsOverUnder),
		TopScorers:         result.Data(tournament.TabTopScorers),
		Draw:               result.Data(tournament.TabDraw),
		Archives:           result.Data(tournament.TabArchives),
		Cache: tournamentCacheDTO{
			EntityID:   result.EntityID,
			TabSources: sources,
			Fallback:   result.Fallback,
		},
	}
	if debug {
		d := result.Debug
		out.Debug = &d
	}
	return out
}

func parseFlag(raw string) bool {
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
