package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/cache"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/payload"
)

// MatchListOffsets is the day-offset neighbourhood searched for a tournament,
// closest days first.
var MatchListOffsets = []int{0, -1, 1, -2, 2, -3, 3, -5, 5, -7, 7}

const (
	resolveStageExternalID = "external_id"
	resolveStageDetails    = "stage_details"
	resolveStageMatchList  = "match_list"
	resolveStageURL        = "ids_by_url"

	resolvedReferenceTTL = 5 * time.Minute
)

var (
	keysTournamentID = []string{"tournament_id"}
	keysStageID      = []string{"tournament_stage_id", "stage_id"}
	keysTemplateID   = []string{"tournament_template_id", "template_id"}
	keysSeasonID     = []string{"season_id", "tournament_season_id"}
	keysDrawStageID  = []string{"draw_stage_id"}
	keysURL          = []string{"tournament_url", "url"}
	keysEvents       = []string{"events", "matches"}
	keysEventID      = []string{"event_id", "id"}
)

type ResolveInput struct {
	Reference tournament.Reference
	// ExternalStageID is an externally tagged id whose marker prefix was stripped.
	ExternalStageID string
	Sport           string
}

type ResolveStep struct {
	Stage  string               `json:"stage"`
	Target string               `json:"target,omitempty"`
	Found  tournament.Reference `json:"found"`
	Error  string               `json:"error,omitempty"`
}

type ResolveResult struct {
	Reference tournament.Reference `json:"reference"`
	Steps     []ResolveStep        `json:"steps"`
	Cached    bool                 `json:"cached,omitempty"`
}

// IdentifierResolver fills in missing tournament identifiers through an
// ordered chain of upstream lookups. A failing lookup only ends its own stage.
type IdentifierResolver struct {
	provider TournamentProvider
	cache    *cache.Store
	logger   *logging.Logger
	offsets  []int
}

func NewIdentifierResolver(provider TournamentProvider, store *cache.Store, logger *logging.Logger) *IdentifierResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdentifierResolver{
		provider: provider,
		cache:    store,
		logger:   logger,
		offsets:  MatchListOffsets,
	}
}

func (r *IdentifierResolver) Resolve(ctx context.Context, input ResolveInput) ResolveResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentifierResolver.Resolve")
	defer span.End()

	ref := input.Reference.Normalize()
	externalID := strings.TrimSpace(input.ExternalStageID)
	if ref.Resolved() {
		return ResolveResult{Reference: ref}
	}

	key := resolveCacheKey(input.Sport, externalID, ref)
	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, key); ok {
			if known, ok := cached.(tournament.Reference); ok {
				return ResolveResult{Reference: ref.Merge(known), Cached: true}
			}
		}
	}

	run := &resolveRun{
		resolver: r,
		ref:      ref,
		urlsDone: make(map[string]struct{}, 2),
	}

	if externalID != "" {
		run.fromExternalID(ctx, externalID)
	}
	if !run.ref.Resolved() && run.ref.StageID != "" {
		run.fromStageDetails(ctx)
	}
	if !run.ref.Resolved() && run.ref.TournamentID != "" {
		run.fromMatchList(ctx, input.Sport)
	}
	if !run.ref.Resolved() && run.ref.URL != "" && run.ref.NeedsURLLookup() {
		run.fromURL(ctx, run.ref.URL)
	}

	if r.cache != nil && run.ref.Resolved() {
		r.cache.Set(ctx, key, run.ref, resolvedReferenceTTL)
	}

	r.logger.DebugContext(ctx, "tournament identifiers resolved",
		"resolved", run.ref.Resolved(),
		"steps", len(run.steps),
		"missing", strings.Join(run.ref.Missing(), ","),
	)
	return ResolveResult{Reference: run.ref, Steps: run.steps}
}

type resolveRun struct {
	resolver *IdentifierResolver
	ref      tournament.Reference
	steps    []ResolveStep
	urlsDone map[string]struct{}
}

func (s *resolveRun) fromExternalID(ctx context.Context, externalID string) {
	doc, err := s.resolver.provider.TournamentDetails(ctx, externalID)
	if err != nil {
		s.fail(ctx, resolveStageExternalID, externalID, err)
		return
	}
	if !payload.IsMeaningful(payload.Unwrap(doc)) {
		s.record(resolveStageExternalID, externalID, tournament.Reference{})
		return
	}

	found := tournament.Reference{StageID: externalID}.Merge(ExtractReference(doc))
	s.record(resolveStageExternalID, externalID, found)
}

func (s *resolveRun) fromStageDetails(ctx context.Context) {
	stageID := s.ref.StageID
	doc, err := s.resolver.provider.TournamentDetails(ctx, stageID)
	if err != nil {
		s.fail(ctx, resolveStageDetails, stageID, err)
		return
	}

	found := ExtractReference(doc)
	s.record(resolveStageDetails, stageID, found)
	if !s.ref.Resolved() && found.URL != "" {
		s.fromURL(ctx, found.URL)
	}
}

func (s *resolveRun) fromMatchList(ctx context.Context, sport string) {
	target := s.ref.TournamentID
	for _, offset := range s.resolver.offsets {
		doc, err := s.resolver.provider.MatchList(ctx, sport, offset)
		if err != nil {
			s.fail(ctx, resolveStageMatchList, "offset="+strconv.Itoa(offset), err)
			continue
		}

		entry, ok := findTournamentEntry(doc, target)
		if !ok {
			continue
		}

		found := ExtractReference(entryWithoutEvents(entry))
		s.record(resolveStageMatchList, "offset="+strconv.Itoa(offset), found)
		if !s.ref.Resolved() {
			s.fromFirstEvent(ctx, entry)
		}
		return
	}
}

func (s *resolveRun) fromFirstEvent(ctx context.Context, entry map[string]any) {
	var events []map[string]any
	for _, key := range keysEvents {
		if value, ok := payload.Lookup(entry, key); ok {
			events = payload.Objects(value)
			break
		}
	}
	if len(events) == 0 {
		return
	}

	eventID := payload.Field(events[0], keysEventID...)
	if eventID == "" {
		return
	}

	doc, err := s.resolver.provider.MatchDetails(ctx, eventID)
	if err != nil {
		s.fail(ctx, resolveStageMatchList, "event="+eventID, err)
		return
	}
	s.record(resolveStageMatchList, "event="+eventID, ExtractReference(doc))
}

func (s *resolveRun) fromURL(ctx context.Context, rawURL string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return
	}
	if _, done := s.urlsDone[rawURL]; done {
		return
	}
	s.urlsDone[rawURL] = struct{}{}

	doc, err := s.resolver.provider.IDsByURL(ctx, rawURL)
	if err != nil {
		s.fail(ctx, resolveStageURL, rawURL, err)
		return
	}
	s.record(resolveStageURL, rawURL, ExtractReference(doc))
}

func (s *resolveRun) record(stage, target string, found tournament.Reference) {
	s.ref = s.ref.Merge(found)
	s.steps = append(s.steps, ResolveStep{Stage: stage, Target: target, Found: found})
}

func (s *resolveRun) fail(ctx context.Context, stage, target string, err error) {
	s.resolver.logger.WarnContext(ctx, "tournament identifier lookup failed",
		"stage", stage,
		"target", target,
		"error", err,
	)
	s.steps = append(s.steps, ResolveStep{Stage: stage, Target: target, Error: err.Error()})
}

// ExtractReference pulls whatever tournament identifiers a provider document carries.
func ExtractReference(doc any) tournament.Reference {
	root := payload.Unwrap(doc)
	pick := func(keys []string) string {
		value, _ := payload.FindFirst(root, keys...)
		return value
	}
	return tournament.Reference{
		TournamentID: pick(keysTournamentID),
		StageID:      pick(keysStageID),
		TemplateID:   pick(keysTemplateID),
		SeasonID:     pick(keysSeasonID),
		DrawStageID:  pick(keysDrawStageID),
		URL:          pick(keysURL),
	}
}

// findTournamentEntry looks for the tournament whose tournament or stage id equals target.
func findTournamentEntry(doc any, target string) (map[string]any, bool) {
	root := payload.Unwrap(doc)
	candidates := payload.Objects(root)
	if obj, ok := root.(map[string]any); ok {
		candidates = append(candidates, obj)
	}

	for _, entry := range candidates {
		if payload.Field(entry, keysTournamentID...) == target || payload.Field(entry, keysStageID...) == target {
			return entry, true
		}
	}
	return nil, false
}

func entryWithoutEvents(entry map[string]any) map[string]any {
	out := make(map[string]any, len(entry))
	for key, value := range entry {
		skip := false
		for _, eventsKey := range keysEvents {
			if strings.EqualFold(key, eventsKey) {
				skip = true
				break
			}
		}
		if !skip {
			out[key] = value
		}
	}
	return out
}

func resolveCacheKey(sport, externalID string, ref tournament.Reference) string {
	return strings.Join([]string{
		"resolve",
		strings.ToLower(strings.TrimSpace(sport)),
		externalID,
		ref.TournamentID,
		ref.StageID,
		ref.TemplateID,
		ref.SeasonID,
		ref.DrawStageID,
		ref.URL,
	}, "|")
}
